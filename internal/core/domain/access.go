package domain

// AccessClass is the static access classification of a page route.
type AccessClass int

const (
	AccessPublic AccessClass = iota
	AccessProtected
	AccessAuthOnly
)

func (a AccessClass) String() string {
	switch a {
	case AccessProtected:
		return "protected"
	case AccessAuthOnly:
		return "auth_only"
	default:
		return "public"
	}
}
