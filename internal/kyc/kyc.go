// Package kyc validates the identity and contact fields kept on customers
// and job workers.
package kyc

import (
	"regexp"
	"strings"
)

var (
	phonePattern  = regexp.MustCompile(`^\d{10}$`)
	aadharPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	emailPattern  = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

var relations = []string{"S/O", "D/O", "W/O", "C/O"}

func ValidPhone(s string) bool  { return phonePattern.MatchString(s) }
func ValidAadhar(s string) bool { return aadharPattern.MatchString(s) }
func ValidPAN(s string) bool    { return panPattern.MatchString(s) }
func ValidEmail(s string) bool  { return emailPattern.MatchString(s) }

// NormalizeRelation uppercases r and defaults blank to S/O. ok is false
// for anything outside S/O, D/O, W/O and C/O.
func NormalizeRelation(r string) (string, bool) {
	r = strings.ToUpper(strings.TrimSpace(r))
	if r == "" {
		return "S/O", true
	}
	for _, v := range relations {
		if v == r {
			return r, true
		}
	}
	return "", false
}

// Contact is the optional set of identity fields shared by parties.
type Contact struct {
	Phone    string
	Mobile   string
	Email    string
	AadharNo string
	PANNo    string
}

// Normalize trims every field, lowercases the email and uppercases the PAN.
func (c Contact) Normalize() Contact {
	return Contact{
		Phone:    strings.TrimSpace(c.Phone),
		Mobile:   strings.TrimSpace(c.Mobile),
		Email:    strings.ToLower(strings.TrimSpace(c.Email)),
		AadharNo: strings.TrimSpace(c.AadharNo),
		PANNo:    strings.ToUpper(strings.TrimSpace(c.PANNo)),
	}
}

// Field names the first invalid field of c, or "" when c is valid. Phone
// is required; the rest are checked only when present.
func (c Contact) Field() string {
	switch {
	case !ValidPhone(c.Phone):
		return "phone"
	case c.Mobile != "" && !ValidPhone(c.Mobile):
		return "mobile"
	case c.Email != "" && !ValidEmail(c.Email):
		return "email"
	case c.AadharNo != "" && !ValidAadhar(c.AadharNo):
		return "aadhar_no"
	case c.PANNo != "" && !ValidPAN(c.PANNo):
		return "pan_no"
	}
	return ""
}
