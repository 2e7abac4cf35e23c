package session

import (
	"hotelbook/models"
	"hotelbook/services/credentials"
)

// Oracle answers session questions from the credential store. It reads the
// store on every call and never writes to it.
type Oracle struct {
	store credentials.Store
}

func NewOracle(store credentials.Store) *Oracle {
	return &Oracle{store: store}
}

// IsAuthenticated is true iff a decryptable token is stored.
func (o *Oracle) IsAuthenticated() bool {
	_, ok := o.store.Read(credentials.FieldToken)
	return ok
}

// Role returns the role of the current session. A role stored without a
// readable token, or anything other than ADMIN or CUSTOMER, reads as absent.
func (o *Oracle) Role() (models.Role, bool) {
	sess, ok := o.Current()
	if !ok {
		return "", false
	}
	return sess.Role, true
}

func (o *Oracle) IsAdmin() bool {
	role, ok := o.Role()
	return ok && role == models.RoleAdmin
}

func (o *Oracle) IsCustomer() bool {
	role, ok := o.Role()
	return ok && role == models.RoleCustomer
}

// Current returns the complete session, or false if either half is missing.
func (o *Oracle) Current() (models.Session, bool) {
	token, ok := o.store.Read(credentials.FieldToken)
	if !ok {
		return models.Session{}, false
	}
	raw, ok := o.store.Read(credentials.FieldRole)
	if !ok {
		return models.Session{}, false
	}
	role, ok := models.ParseRole(raw)
	if !ok {
		return models.Session{}, false
	}
	return models.Session{Token: token, Role: role}, true
}
