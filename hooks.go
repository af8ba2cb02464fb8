package klv

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// Codecs call them on decode paths.
//
// universalKey is the schema's universal key as printable ASCII, or hex when
// it is not printable.
type Hooks interface {
	// A decoded payload carried a tag the schema does not declare. The field was ignored.
	// Called once per distinct tag per payload, in the order tags first appear.
	UnknownTag(universalKey string, tag uint64)

	// A tag appeared more than once; the last occurrence was kept.
	// Not called under RejectDuplicates (the decode fails instead).
	DuplicateTag(universalKey string, tag uint64)

	// An envelope failed checksum verification and was not parsed.
	ChecksumRejected(universalKey string)

	// A stored record could not be decoded and was deleted by the store.
	// reason ∈ {"checksum", "key_mismatch", "decode"}
	SelfHeal(storageKey, reason string)

	// The store's provider rejected a write under pressure.
	ProviderSetRejected(storageKey string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) UnknownTag(string, uint64)   {}
func (NopHooks) DuplicateTag(string, uint64) {}
func (NopHooks) ChecksumRejected(string)     {}
func (NopHooks) SelfHeal(string, string)     {}
func (NopHooks) ProviderSetRejected(string)  {}
