package record

import "reflect"

// Equal reports whether two field values are loosely equal: numeric values
// compare by value across int, uint, and float kinds, everything else by
// deep equality. A criteria value of 10 matches a record value of 10.0.
func Equal(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)

	if aNum || bNum {
		return aNum && bNum && af == bf
	}

	return reflect.DeepEqual(a, b)
}

// Compare orders two field values. The second return is false when the
// values are of kinds that cannot be ordered against each other, in which
// case the caller should fall through to its next sort key.
func Compare(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}

		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}

	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}

		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}

	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}

		switch {
		case ab == bb:
			return 0, true
		case bb: // false < true
			return -1, true
		default:
			return 1, true
		}
	}

	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
