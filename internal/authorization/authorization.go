package authorization

import (
	"context"
	"errors"
)

const (
	ObjectCustomer  = "customer"
	ObjectJobWorker = "jobworker"
	ObjectAgent     = "agent"
	ObjectItem      = "item"
	ObjectOrder     = "order"
	ObjectBill      = "bill"
	ObjectLoan      = "loan"
	ObjectPayment   = "payment"
	ObjectRateBook  = "ratebook"
	ObjectStation   = "station"
	ObjectUser      = "user"
	ObjectAuditLog  = "audit_log"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionView   = "view"
)

// Service checks whether an actor may perform action on object.
type Service interface {
	Authorize(ctx context.Context, userID string, role string, object string, action string) error
}

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
)
