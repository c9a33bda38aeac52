package swap

import "fmt"

// ValidationError is a problem with one leg, found before or while building
// the group. Leg is 1-based.
type ValidationError struct {
	Leg     int
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalidLeg(leg int) *ValidationError {
	return &ValidationError{
		Leg:     leg,
		Message: fmt.Sprintf("Invalid transaction! Please check the transaction %d.", leg),
	}
}

func invalidType(leg int, t TxType) *ValidationError {
	return &ValidationError{
		Leg:   leg,
		Field: "type",
		Message: fmt.Sprintf(
			"Transaction %d has an invalid type %q. It must be one of \"pay\", \"axfer\" or \"optin\".",
			leg, string(t),
		),
	}
}

func invalidAmount(leg int) *ValidationError {
	return &ValidationError{
		Leg:     leg,
		Field:   "amount",
		Message: fmt.Sprintf("Invalid Amount for transaction %d", leg),
	}
}

func invalidAddress(leg int, field string, err error) *ValidationError {
	label := "Sender"
	if field == "receiver" {
		label = "Receiver"
	}
	return &ValidationError{
		Leg:     leg,
		Field:   field,
		Message: fmt.Sprintf("Invalid %s for transaction %d", label, leg),
		Err:     err,
	}
}

func invalidAssetID(leg int) *ValidationError {
	return &ValidationError{
		Leg:     leg,
		Field:   "assetId",
		Message: fmt.Sprintf("Invalid Asset Id for transaction %d", leg),
	}
}

// InvalidAssetIDError reports an asset the metadata service could not
// describe. It aborts the whole build.
type InvalidAssetIDError struct {
	Leg     int
	AssetID uint64
	Err     error
}

func (e *InvalidAssetIDError) Error() string {
	return fmt.Sprintf("Invalid Asset Id for transaction %d: asset %d: %s", e.Leg, e.AssetID, e.Err)
}

func (e *InvalidAssetIDError) Unwrap() error {
	return e.Err
}
