package stp

// commentSection parses SECTION Comment: one `Key "value"` pair per line.
type commentSection struct {
	a    *assembly
	meta Metadata
}

func (c *commentSection) record(ln Line) error {
	key := ln.Keyword()
	value, ok := unquote(ln.Rest())
	if !ok {
		if err := c.a.warn(UnexpectedRecord, ln, sectionComment,
			"value of %q has unbalanced quotes", key); err != nil {
			return err
		}
	}

	switch key {
	case "Name":
		c.meta.Name = value
	case "Creator":
		c.meta.Creator = value
	case "Remark":
		c.meta.Remark = value
	case "Problem":
		c.meta.Problem = value
	default:
		c.meta.Fields = append(c.meta.Fields, Field{Key: key, Value: value})
	}
	return nil
}

func (c *commentSection) finish(Line) error {
	c.a.inst.Metadata = c.meta
	return nil
}
