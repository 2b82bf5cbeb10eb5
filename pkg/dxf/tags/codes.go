package tags

// Group codes used by the OBJECTS section.
const (
	CodeStructure     = 0   // structure tag, value is the entity type
	CodeValue         = 1   // primary text value
	CodeName          = 2   // secondary name
	CodeEntryName     = 3   // dictionary entry name
	CodeHandle        = 5   // entity handle
	CodeSubclass      = 100 // subclass marker
	CodeAppData       = 102 // application data boundary
	CodeOwner         = 330 // soft pointer to owner
	CodeSoftPointer   = 350 // soft owner pointer (dictionary entry)
	CodeHardPointer   = 360 // hard owner pointer (dictionary entry)
	CodeDefaultEntry  = 340 // default object of ACDBDICTIONARYWDFLT
	CodeSectionName   = 2   // SECTION name tag
	CodeHeaderVar     = 9   // header variable name
	CodeFlags         = 70  // integer flags
	CodeInt90         = 90  // 32 bit integer
	CodeBool280       = 280 // 8 bit integer / boolean
	CodeCloning       = 281 // duplicate record cloning flag
)

// ValueType classifies the value form of a group code.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeHandle
	TypeBool
)

type codeRange struct {
	lo, hi int
	typ    ValueType
}

var codeRanges = []codeRange{
	{0, 9, TypeString},
	{10, 59, TypeFloat},
	{60, 79, TypeInt},
	{90, 99, TypeInt},
	{100, 102, TypeString},
	{105, 105, TypeHandle},
	{110, 149, TypeFloat},
	{160, 179, TypeInt},
	{210, 239, TypeFloat},
	{270, 289, TypeInt},
	{290, 299, TypeBool},
	{300, 329, TypeString},
	{330, 369, TypeHandle},
	{370, 389, TypeInt},
	{390, 399, TypeHandle},
	{400, 409, TypeInt},
	{410, 419, TypeString},
	{420, 429, TypeInt},
	{430, 439, TypeString},
	{440, 459, TypeInt},
	{460, 469, TypeFloat},
	{470, 481, TypeString},
	{999, 1009, TypeString},
	{1010, 1059, TypeFloat},
	{1060, 1071, TypeInt},
}

// GroupType yields the value type of a group code. Unknown codes
// are treated as strings to keep unknown content intact.
func GroupType(code int) ValueType {
	for _, r := range codeRanges {
		if code >= r.lo && code <= r.hi {
			return r.typ
		}
	}
	return TypeString
}
