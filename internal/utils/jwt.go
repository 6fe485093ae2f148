package utils // package utils provides helpers for issuing device tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DeviceToken is a signed HS256 JWT together with its expiry.
type DeviceToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// NewDeviceToken signs a token for a medicine box or caregiver app. The
// subject identifies the device; role is checked by the /predict route.
func NewDeviceToken(secret, deviceID, role string, ttlMin int) (DeviceToken, error) {
	if secret == "" {
		return DeviceToken{}, errors.New("empty signing secret")
	}
	if deviceID == "" {
		return DeviceToken{}, errors.New("empty device id")
	}
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  deviceID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return DeviceToken{}, err
	}
	return DeviceToken{Token: signed, Exp: exp}, nil
}
