package uc

import "errors"

// ErrDatasetNotFound is returned when the dataset does not exist or belongs
// to another user.
var ErrDatasetNotFound = errors.New("dataset not found")
