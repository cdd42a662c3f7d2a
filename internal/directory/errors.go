package directory

import (
	"errors"
	"fmt"
)

// ErrAmbiguousResult is returned by single-result lookups when more than
// one entry survives filtering. Distinct from "not found", which is the
// normal absent outcome (nil account, nil error).
var ErrAmbiguousResult = errors.New("ambiguous result: more than one directory entry matched")

func singleDelegate(results []*DelegateAccount) (*DelegateAccount, error) {
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return nil, fmt.Errorf("%w (%d matches)", ErrAmbiguousResult, len(results))
	}
}

func singlePerson(results []*PersonAccount) (*PersonAccount, error) {
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return nil, fmt.Errorf("%w (%d matches)", ErrAmbiguousResult, len(results))
	}
}
