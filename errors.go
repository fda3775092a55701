package codec

import "errors"

var (
	// ErrMissingField indicates that a required value was nil when a wrapper or
	// composite was constructed. It is raised before any byte is touched.
	ErrMissingField = errors.New("codec: required field is missing")

	// ErrInsufficientBytes indicates that a decode step needed more bytes than remained
	// in the buffer or in the enclosing size budget.
	ErrInsufficientBytes = errors.New("codec: insufficient bytes")

	// ErrOutOfRange indicates that an integer cannot be represented in its declared width.
	ErrOutOfRange = errors.New("codec: value out of range")

	// ErrUnknownDiscriminant indicates that a type field did not match any schema entry.
	ErrUnknownDiscriminant = errors.New("codec: unknown discriminant")

	// ErrUnknownName indicates that a registry lookup by name found no struct or body.
	ErrUnknownName = errors.New("codec: no schema entry with that name")

	// ErrLengthMismatch indicates that a fixed-size wrapper was built from a slice of the wrong length.
	ErrLengthMismatch = errors.New("codec: byte length does not match declared size")

	// ErrFieldType indicates that a composite field was given a value of the wrong type.
	ErrFieldType = errors.New("codec: value has wrong type for field")

	// ErrInvalidSchema indicates that a schema table could not be compiled.
	ErrInvalidSchema = errors.New("codec: invalid schema")

	// ErrTrailingData is returned when non-zero bytes are left inside a size-declared
	// entity after all of its fields were decoded.
	ErrTrailingData = errors.New("codec: non-zero trailing data found after decoding")

	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("codec: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("codec: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer, which would lead to unpredictable behavior and performance issues.
	ErrAlreadyBuffered = errors.New("codec: reader or writer is already buffered")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("codec: WriteTo called with a nil io.Writer")

	// ErrReadToNil indicates a ReadTo operation was attempted on a nil io.ReaderFrom.
	ErrReadToNil = errors.New("codec: ReadTo called with a nil io.ReaderFrom")

	// ErrInvalidSeek indicates a seek was attempted to invalid position.
	ErrInvalidSeek = errors.New("codec: seek to a invalid position")

	// ErrUnsupportedNegativeSeek indicates a backward seek was attempted on a forward-only seeker.
	ErrUnsupportedNegativeSeek = errors.New("codec: unsupported negative offset for forward-only seeker")

	// ErrInvalidWhence indicates that an invalid 'whence' parameter was provided to a Seek operation.
	ErrInvalidWhence = errors.New("codec: unsupported whence for forward-only seeker")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("codec: writer returned invalid count from Write")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("codec: reader returned invalid count from Read")

	// ErrDiscardNegative indicates a Discard operation was attempted with a negative byte count.
	ErrDiscardNegative = errors.New("codec: cannot discard negative number of bytes")
)
