package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the aggregate root for accounts.
// Password holds a bcrypt hash and never leaves the process.
type User struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName     string             `bson:"firstName" json:"firstName"`
	LastName      string             `bson:"lastName" json:"lastName"`
	Username      string             `bson:"username" json:"username"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	RecoveryEmail string             `bson:"recoveryEmail,omitempty" json:"recoveryEmail,omitempty"`
	DOB           time.Time          `bson:"DOB" json:"DOB"`
	MobileNumber  string             `bson:"mobileNumber" json:"mobileNumber"`
	Role          Role               `bson:"role" json:"role"`
	Status        Status             `bson:"status" json:"status"`
	IsConfirmed   bool               `bson:"isConfirmed" json:"isConfirmed"`
	OTP           *string            `bson:"otp" json:"-"`
	OTPExpiry     *time.Time         `bson:"otpExpiry" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DeriveUsername is the only way a username is produced.
func DeriveUsername(firstName, lastName string) string {
	return firstName + lastName
}

// SetName updates either name part and recomputes Username. Empty parts are left unchanged.
func (u *User) SetName(firstName, lastName string) {
	if firstName != "" {
		u.FirstName = firstName
	}
	if lastName != "" {
		u.LastName = lastName
	}
	u.Username = DeriveUsername(u.FirstName, u.LastName)
}

func (u *User) OTPMatches(code string) bool {
	return u.OTP != nil && code != "" && *u.OTP == code
}

// OTPExpired is also true when no expiry is stored.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OTPExpiry == nil || now.After(*u.OTPExpiry)
}

func (u *User) IsOnline() bool { return u.Status == StatusOnline }

// Principal returns the authenticated principal view of the user.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, Status: u.Status, RecoveryEmail: u.RecoveryEmail}
}

// PublicProfile is what other users may see.
type PublicProfile struct {
	ID           primitive.ObjectID `json:"_id"`
	Username     string             `json:"username"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Email        string             `json:"email"`
	MobileNumber string             `json:"mobileNumber"`
	DOB          time.Time          `json:"DOB"`
	Role         Role               `json:"role"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		MobileNumber: u.MobileNumber,
		DOB:          u.DOB,
		Role:         u.Role,
	}
}
