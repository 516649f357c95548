package ast

// VisitorFunc is called for each value during a Walk. Calling next descends
// into the value's children; not calling it prunes the subtree.
type VisitorFunc func(v Value, next func() error) error

// Walk traverses a value depth-first, pre-order.
func Walk(v Value, visitor VisitorFunc) error {
	return visitor(v, func() error {
		switch v := v.(type) {
		case Tuple:
			for _, c := range v {
				if err := Walk(c, visitor); err != nil {
					return err
				}
			}

		case List:
			for _, c := range v {
				if err := Walk(c, visitor); err != nil {
					return err
				}
			}

		case Option:
			if v.Value != nil {
				return Walk(v.Value, visitor)
			}

		case Variant:
			if v.Value != nil {
				return Walk(v.Value, visitor)
			}

		case Pair:
			if err := Walk(v.Head, visitor); err != nil {
				return err
			}
			return Walk(v.Tail, visitor)

		case Token, Blank:
		}
		return nil
	})
}
