package message

// SessionError indicates that a connection or authentication with a mail
// server could not be established.
type SessionError struct {
	Message string
	Cause   error
}

func (e *SessionError) Error() string { return formatError(e.Message, e.Cause) }

func (e *SessionError) Unwrap() error { return e.Cause }

// FolderOperationError indicates that a folder-level operation (open, fetch,
// expunge) failed. The folder is still closed by the caller.
type FolderOperationError struct {
	Folder  string
	Message string
	Cause   error
}

func (e *FolderOperationError) Error() string { return formatError(e.Message, e.Cause) }

func (e *FolderOperationError) Unwrap() error { return e.Cause }

// ReadMessageError indicates that content or attachments could not be
// extracted from a message. It aborts the conversion of that message.
type ReadMessageError struct {
	Message string
	Cause   error
}

func (e *ReadMessageError) Error() string { return formatError(e.Message, e.Cause) }

func (e *ReadMessageError) Unwrap() error { return e.Cause }

// CreateMessageError indicates that an outgoing message could not be
// assembled into its wire form.
type CreateMessageError struct {
	Message string
	Cause   error
}

func (e *CreateMessageError) Error() string { return formatError(e.Message, e.Cause) }

func (e *CreateMessageError) Unwrap() error { return e.Cause }

// ValidationError indicates malformed input. It is raised before any
// transport call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func formatError(msg string, cause error) string {
	if cause != nil {
		return msg + ": " + cause.Error()
	}
	return msg
}
