package sentinel

import "errors"

// ErrNotFound is the infrastructure fact "the record does not exist". Adapters
// return it (optionally wrapped) so services can translate it into their own
// retryable taxonomy.
var ErrNotFound = errors.New("not found")
