package http

// ResultKind tells which variant a Result holds.
type ResultKind int

const (
	// ResultBytes means the resource was fetched and Body holds it.
	ResultBytes ResultKind = iota
	// ResultAbsent means there was no locator to fetch.
	ResultAbsent
	// ResultFailed means the fetch was attempted and Err explains why it failed.
	ResultFailed
)

func (k ResultKind) String() string {
	switch k {
	case ResultBytes:
		return "bytes"
	case ResultAbsent:
		return "absent"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single Fetch. It is consumed once and not retained.
type Result struct {
	Kind ResultKind
	Body []byte
	Err  error
}

// Bytes returns a successful result.
func Bytes(body []byte) Result { return Result{Kind: ResultBytes, Body: body} }

// Absent returns the result for a record without a locator.
func Absent() Result { return Result{Kind: ResultAbsent} }

// Failed returns a failed result with the given cause.
func Failed(err error) Result { return Result{Kind: ResultFailed, Err: err} }
