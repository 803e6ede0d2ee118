package domain

import "fmt"

// MissingInputError reports that the raw dataset file does not exist. The
// dataset is distributed via Kaggle and cannot be fetched automatically, so
// the message tells the operator how to fix it.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf(
		"raw dataset not found at %s: download the US-Accidents CSV from "+
			"https://www.kaggle.com/datasets/sobhanmoosavi/us-accidents and place it at that path",
		e.Path,
	)
}

// SchemaError reports a required column missing from the raw header,
// typically caused by a renamed column in a new dataset revision.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("raw dataset is missing required column %q", e.Column)
}

// WriteError reports a failure to persist processed output.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
