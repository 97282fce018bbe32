package updates

import (
	"errors"
	"strconv"
	"testing"

	"github.com/martinemde/steinlib/stp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSequence = `SECTION UPDATES
# warm-up
T A 1
E I 1 2 3.5
E I 2 7 1
Q 1
V I
E D 1 2 3.5
T D 1
V D 7
Q 2
END
`

func TestParseSequence(t *testing.T) {
	seq, err := Parse([]byte(sampleSequence))
	require.NoError(t, err)
	require.Len(t, seq.Ops, 9)

	kinds := []OpKind{
		TerminalActivation, EdgeInsertion, EdgeInsertion, Query, VertexInsertion,
		EdgeDeletion, TerminalDeactivation, VertexDeletion, Query,
	}
	for i, op := range seq.Ops {
		assert.Equal(t, kinds[i], op.Kind, "op %d", i)
	}

	assert.Equal(t, 1, seq.Ops[0].Vertex)
	assert.Equal(t, 3, seq.Ops[0].Line)
	assert.Equal(t, stp.Edge{From: 1, To: 2, Cost: 3.5}, seq.Ops[1].Edge)
	assert.Equal(t, 1, seq.Ops[3].Query)
	assert.Equal(t, 7, seq.Ops[7].Vertex)
	assert.Equal(t, 7, seq.MaxVertex())
	assert.Equal(t, 2, seq.Queries())
}

func TestSequenceCursor(t *testing.T) {
	seq, err := Parse([]byte(sampleSequence))
	require.NoError(t, err)

	var replayed []Operation
	for {
		op, ok := seq.Next()
		if !ok {
			break
		}
		replayed = append(replayed, op)
	}
	assert.Equal(t, seq.Ops, replayed)
	assert.Equal(t, 0, seq.Remaining())

	seq.Reset()
	assert.Equal(t, 9, seq.Remaining())
	op, ok := seq.Next()
	require.True(t, ok)
	assert.Equal(t, TerminalActivation, op.Kind)
}

func TestParseWithoutEnd(t *testing.T) {
	seq, err := Parse([]byte("SECTION UPDATES\nV I\n"))
	require.NoError(t, err)
	assert.Len(t, seq.Ops, 1)
	assert.Equal(t, 0, seq.MaxVertex())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		line  int
		field string
	}{
		{"no section", "T A 1\n", 1, ""},
		{"wrong section", "SECTION Graph\n", 1, ""},
		{"terminal action", "SECTION UPDATES\nT X 1\n", 2, "action"},
		{"terminal vertex", "SECTION UPDATES\nT A zero\n", 2, "vertex"},
		{"edge arity", "SECTION UPDATES\nE I 1 2\n", 2, "record"},
		{"edge action", "SECTION UPDATES\nE X 1 2 1\n", 2, "action"},
		{"edge endpoint", "SECTION UPDATES\nE I 1 0 1\n", 2, "to"},
		{"edge cost", "SECTION UPDATES\nE I 1 2 inf\n", 2, "cost"},
		{"vertex delete", "SECTION UPDATES\nV D\n", 2, "record"},
		{"query", "SECTION UPDATES\nQ\n", 2, "record"},
		{"unknown op", "SECTION UPDATES\nX 1\n", 2, "record"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seq, err := Parse([]byte(tc.src))
			require.Error(t, err)
			assert.Nil(t, seq)
			assert.True(t, errors.Is(err, ErrInvalidUpdateRecord))

			var perr *stp.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.line, perr.Line)
			assert.Equal(t, tc.field, perr.Field)
		})
	}
}

func TestParseMalformedMarker(t *testing.T) {
	_, err := Parse([]byte("SECTION\n"))
	assert.ErrorIs(t, err, stp.ErrMalformedSectionMarker)
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "EdgeInsertion(1, 2, 3.5)", Operation{Kind: EdgeInsertion, Edge: stp.Edge{From: 1, To: 2, Cost: 3.5}}.String())
	assert.Equal(t, "VertexInsertion", Operation{Kind: VertexInsertion}.String())
	assert.Equal(t, "Query(4)", Operation{Kind: Query, Query: 4}.String())
}

func queryInstance(edges string, terminals ...string) []byte {
	src := "SECTION Graph\nNodes 7\n" + edges + "END\nSECTION Terminals\n"
	src += "Terminals " + strconv.Itoa(len(terminals)) + "\n"
	for _, t := range terminals {
		src += "T " + t + "\n"
	}
	return []byte(src + "END\n")
}

func TestAttachQueries(t *testing.T) {
	seq, err := Parse([]byte(sampleSequence))
	require.NoError(t, err)

	first := queryInstance("Edges 2\nE 1 2 3.5\nE 2 7 1\n", "1")
	second := queryInstance("Edges 1\nE 2 7 1\n")
	require.NoError(t, seq.AttachQueries([][]byte{first, second}, stp.Options{}))

	q1, q2 := seq.Ops[3], seq.Ops[8]
	require.NotNil(t, q1.Instance)
	require.NotNil(t, q2.Instance)
	assert.Equal(t, []stp.Edge{{From: 1, To: 2, Cost: 3.5}, {From: 2, To: 7, Cost: 1}}, q1.Instance.Edges)
	assert.Equal(t, []int{1}, q1.Instance.Terminals)
	assert.Equal(t, 1, q2.Instance.EdgeCount())
	assert.Empty(t, q2.Instance.Terminals)

	for _, op := range seq.Ops {
		if op.Kind != Query {
			assert.Nil(t, op.Instance, op.String())
		}
	}
}

func TestAttachQueriesErrors(t *testing.T) {
	seq, err := Parse([]byte(sampleSequence))
	require.NoError(t, err)

	err = seq.AttachQueries([][]byte{queryInstance("Edges 0\n")}, stp.Options{})
	assert.ErrorContains(t, err, "sequence has 2 queries, got 1 query instances")

	bad := []byte("SECTION Graph\nNodes 7\nEdges 1\nEND\n")
	err = seq.AttachQueries([][]byte{queryInstance("Edges 0\n"), bad}, stp.Options{})
	assert.ErrorIs(t, err, stp.ErrEdgeCountMismatch)
	assert.ErrorContains(t, err, "query 2 (line 11)")
}
