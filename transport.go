package zuora

import "context"

// Field is one attribute on a remote record or outgoing object. Order is
// preserved so serialization walks attributes the way the wire delivered
// them.
type Field struct {
	Key   string
	Value any
}

// Record is a flat attribute list returned by the query gateway. Nested
// values (a Record or []Record) only appear on payloads that the generic
// serializer consumes.
type Record struct {
	Type   string
	Fields []Field
}

// Get returns the value for key, reporting whether the attribute exists.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// RecordSet is one page of query results. When Done is false the
// QueryLocator continues the result via QueryMore.
type RecordSet struct {
	Records      []Record
	QueryLocator string
	Done         bool
}

// SaveResult reports the per-object outcome of a create/update/delete.
type SaveResult struct {
	ID      string
	Success bool
	Errors  []SaveError
}

// SaveError is a vendor-reported failure on a single object.
type SaveError struct {
	Code    string
	Message string
}

// SubscribeResult reports the outcome of a subscribe call.
type SubscribeResult struct {
	Success            bool
	AccountID          string
	AccountNumber      string
	SubscriptionID     string
	SubscriptionNumber string
	InvoiceID          string
	Errors             []SaveError
}

// RemoteObject is implemented by every typed payload submitted through
// create/update. ObjectFields enumerates only the attributes that were
// set; wire keys keep the vendor casing, including the __c custom-field
// suffix.
type RemoteObject interface {
	ObjectType() string
	ObjectFields() []Field
}

// Transport is the SOAP collaborator. The envelope shape is owned by the
// implementation; this library only depends on the operations below. All
// methods take the session token obtained from Login.
type Transport interface {
	Login(ctx context.Context, username, password string) (string, error)
	Query(ctx context.Context, session, queryString string) (*RecordSet, error)
	QueryMore(ctx context.Context, session, queryLocator string) (*RecordSet, error)
	Create(ctx context.Context, session string, objects []RemoteObject) ([]SaveResult, error)
	Update(ctx context.Context, session string, objects []RemoteObject) ([]SaveResult, error)
	Delete(ctx context.Context, session, objectType string, ids []string) ([]SaveResult, error)
	Amend(ctx context.Context, session string, request AmendRequest) ([]SaveResult, error)
	Subscribe(ctx context.Context, session string, request SubscribeRequest) ([]SubscribeResult, error)
}
