package domain

import "fmt"

// Question represents a single DNS question: the name/type/class being asked
// about. ID is the transaction ID under which a query carrying this question
// was or will be sent on the wire.
type Question struct {
	ID    uint16
	Name  Name
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question and validates its fields.
func NewQuestion(id uint16, name Name, rrtype RRType, class RRClass) (Question, error) {
	q := Question{
		ID:    id,
		Name:  name,
		Type:  rrtype,
		Class: class,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks whether the Question fields are structurally and semantically valid.
func (q Question) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("query name must not be empty")
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("unsupported RRType: %d", q.Type)
	}
	if !q.Class.IsValid() {
		return fmt.Errorf("unsupported RRClass: %d", q.Class)
	}
	return nil
}

// CacheKey returns a cache key string derived from the question's name, type, and class.
func (q Question) CacheKey() string {
	return GenerateCacheKey(q.Name, q.Type, q.Class)
}
