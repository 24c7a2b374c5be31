package fbx

import "strings"

// PropertyFlags is the bit set parsed from a property record's flag string.
// The low byte holds the boolean flags, the high byte the locked-member
// digit, so two flag sets compare equal iff they decode the same string
// modulo unknown characters.
type PropertyFlags uint16

const (
	FlagAnimatable  PropertyFlags = 1 << 0
	FlagAnimated    PropertyFlags = 1 << 1 // implies FlagAnimatable
	FlagUserDefined PropertyFlags = 1 << 2
	FlagLocked      PropertyFlags = 1 << 3
	FlagHidden      PropertyFlags = 1 << 5

	lockShift = 8
	lockMask  = PropertyFlags(0xf) << lockShift
)

// ParsePropertyFlags decodes a flag string such as "A+U" or "L4". Unknown
// characters are logged and skipped.
func ParsePropertyFlags(s string) PropertyFlags {
	var f PropertyFlags
	rest := s
	for len(rest) > 0 {
		c := rest[0]
		rest = rest[1:]
		switch c {
		case 'A':
			f |= FlagAnimatable
			if strings.HasPrefix(rest, "+") {
				f |= FlagAnimated
				rest = rest[1:]
			}
		case 'U':
			f |= FlagUserDefined
		case 'H':
			f |= FlagHidden
		case 'L':
			if len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9' {
				f |= FlagLocked
				f = (f &^ lockMask) | PropertyFlags(rest[0]-'0')<<lockShift
				rest = rest[1:]
			} else {
				logger.Warn("lock flag without member digit", "flags", s)
			}
		default:
			logger.Warn("unknown property flag character", "char", string(c), "flags", s)
		}
	}
	return f
}

func (f PropertyFlags) Animatable() bool  { return f&FlagAnimatable != 0 }
func (f PropertyFlags) Animated() bool    { return f&FlagAnimated != 0 }
func (f PropertyFlags) UserDefined() bool { return f&FlagUserDefined != 0 }
func (f PropertyFlags) Hidden() bool      { return f&FlagHidden != 0 }
func (f PropertyFlags) Locked() bool      { return f&FlagLocked != 0 }

// LockedMembers returns the digit that followed the lock flag, 0 when the
// set is not locked.
func (f PropertyFlags) LockedMembers() int {
	return int((f & lockMask) >> lockShift)
}

// String renders the canonical flag string.
func (f PropertyFlags) String() string {
	var b strings.Builder
	if f.Animatable() {
		b.WriteByte('A')
		if f.Animated() {
			b.WriteByte('+')
		}
	}
	if f.UserDefined() {
		b.WriteByte('U')
	}
	if f.Hidden() {
		b.WriteByte('H')
	}
	if f.Locked() {
		b.WriteByte('L')
		b.WriteByte(byte('0' + f.LockedMembers()))
	}
	return b.String()
}
