package writer

import "fmt"

// SchemaError means the table could not be created at all. Distinct from the
// post-create verification, which only warns.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema bootstrap failed: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// LoadError means the batch insert failed for a reason other than the
// expected key conflict. The whole batch is rolled back.
type LoadError struct {
	Attempted int
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load of %d rows failed: %v", e.Attempted, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
