package response

type ErrorCode string

const (
	// ErrProtectedMember is returned when registering a reserved member name
	ErrProtectedMember ErrorCode = "ProtectedMember"
)
