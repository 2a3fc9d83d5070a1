package sandbox

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rezonia/dte-emitter/internal/signer"
)

type signRequest struct {
	NIT             string         `json:"nit"`
	Active          bool           `json:"activo"`
	PrivatePassword string         `json:"passwordPri"`
	Document        map[string]any `json:"dteJson"`
}

type signerFailure struct {
	Code    string   `json:"codigo"`
	Message []string `json:"mensaje"`
}

func (s *Server) handleSign(c *gin.Context) {
	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": signer.StatusError,
			"body":   signerFailure{Code: "803", Message: []string{"JSON invalido"}},
		})
		return
	}

	if req.NIT == "" || req.Document == nil {
		c.JSON(http.StatusOK, gin.H{
			"status": signer.StatusError,
			"body":   signerFailure{Code: "809", Message: []string{"nit y dteJson son requeridos"}},
		})
		return
	}

	if s.config.PrivateKeyPassword != "" && req.PrivatePassword != s.config.PrivateKeyPassword {
		c.JSON(http.StatusOK, gin.H{
			"status": signer.StatusError,
			"body":   signerFailure{Code: "812", Message: []string{"No validado, credenciales incorrectas"}},
		})
		return
	}

	signed, err := s.sign(req.Document)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": signer.StatusError,
			"body":   err.Error(),
		})
		return
	}

	s.logger.Debug("document signed", "nit", req.NIT)
	c.JSON(http.StatusOK, gin.H{
		"status": signer.StatusOK,
		"body":   signed,
	})
}

func (s *Server) sign(document map[string]any) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(document))
	return token.SignedString([]byte(s.config.SigningKey))
}

// verify checks a JWS issued by handleSign and returns its claims
func (s *Server) verify(signed string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.config.SigningKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
