package signer

import (
	"github.com/golang-jwt/jwt/v5"
)

// Payload is the decoded content of a signed document
type Payload struct {
	Algorithm string
	Claims    jwt.MapClaims
}

// Inspect decodes a compact JWS returned by the signer without verifying
// its signature. The authority verifies signatures on reception.
func Inspect(signed string) (*Payload, error) {
	claims := jwt.MapClaims{}
	token, _, err := jwt.NewParser().ParseUnverified(signed, claims)
	if err != nil {
		return nil, ErrMalformedJWS(err)
	}
	alg, _ := token.Header["alg"].(string)
	return &Payload{Algorithm: alg, Claims: claims}, nil
}

func (p *Payload) identification(key string) string {
	id, ok := p.Claims["identificacion"].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := id[key].(string)
	return v
}

// GenerationCode returns identificacion.codigoGeneracion
func (p *Payload) GenerationCode() string {
	return p.identification("codigoGeneracion")
}

// DocumentType returns identificacion.tipoDte, empty for invalidation events
func (p *Payload) DocumentType() string {
	return p.identification("tipoDte")
}

// Environment returns identificacion.ambiente
func (p *Payload) Environment() string {
	return p.identification("ambiente")
}

// VerifyGenerationCode checks that signed carries the expected generation code
func VerifyGenerationCode(signed, expected string) error {
	p, err := Inspect(signed)
	if err != nil {
		return err
	}
	if got := p.GenerationCode(); got != expected {
		return ErrPayloadMismatch("identificacion.codigoGeneracion", expected, got)
	}
	return nil
}
