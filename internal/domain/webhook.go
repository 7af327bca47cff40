package domain

// WebhookEnvelope is an inbound platform notification. RawBody holds the
// exact bytes as received; signature verification depends on them and any
// re-encoding would invalidate it.
type WebhookEnvelope struct {
	Topic   string
	Shop    string
	RawBody []byte
}
