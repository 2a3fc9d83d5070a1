package sandbox

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rezonia/dte-emitter/internal/auth"
	"github.com/rezonia/dte-emitter/internal/model"
	"github.com/rezonia/dte-emitter/internal/transmit"
)

// Sandbox message codes, modelled on the authority's
const (
	codeReceived      = "001"
	codeDuplicate     = "004"
	codeInvalidSign   = "096"
	codeMismatch      = "098"
	codeNotFound      = "099"
	codeAlreadyVoided = "005"
)

type record struct {
	docType     string
	version     int
	seal        string
	processedAt time.Time
	invalidated bool
}

func (s *Server) handleLogin(c *gin.Context) {
	user := c.PostForm("user")
	pwd := c.PostForm("pwd")

	if slices.Contains(s.config.BlockedUsers, user) {
		c.JSON(http.StatusForbidden, gin.H{"status": "ERROR", "body": "Usuario bloqueado"})
		return
	}
	if user == "" || pwd != s.config.Password || (s.config.User != "" && user != s.config.User) {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "ERROR", "body": "Usuario o contrasena incorrectos"})
		return
	}

	token := "Bearer " + uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = s.clock.Now().Add(s.config.TokenTTL)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status": "OK",
		"body": auth.LoginResponse{
			Token:     token,
			TokenType: "Bearer",
			Roles:     []string{"USER"},
		},
	})
}

// requireToken rejects calls without a live token and serves injected failures
func (s *Server) requireToken(c *gin.Context) {
	header := auth.AuthorizationHeader(strings.TrimSpace(c.GetHeader("Authorization")))

	s.mu.Lock()
	if s.failNext > 0 {
		s.failNext--
		s.mu.Unlock()
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}
	expiry, ok := s.tokens[header]
	s.mu.Unlock()

	if !ok || !s.clock.Now().Before(expiry) {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Next()
}

func (s *Server) handleReception(c *gin.Context) {
	var req transmit.ReceptionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	claims, err := s.verify(req.Document)
	if err != nil {
		s.reject(c, req.GenerationCode, codeInvalidSign, "FIRMA INVALIDA", err.Error())
		return
	}
	if got := identification(claims, "codigoGeneracion"); !strings.EqualFold(got, req.GenerationCode) {
		s.reject(c, req.GenerationCode, codeMismatch, "[codigoGeneracion] NO COINCIDE CON EL DOCUMENTO FIRMADO", got)
		return
	}
	if got := identification(claims, "tipoDte"); got != req.DocumentType {
		s.reject(c, req.GenerationCode, codeMismatch, "[tipoDte] NO COINCIDE CON EL DOCUMENTO FIRMADO", got)
		return
	}

	code := strings.ToUpper(req.GenerationCode)
	now := s.clock.Now()

	s.mu.Lock()
	if _, exists := s.records[code]; exists {
		s.mu.Unlock()
		s.reject(c, code, codeDuplicate, "[identificacion.codigoGeneracion] YA EXISTE UN REGISTRO CON ESE VALOR")
		return
	}
	rec := &record{
		docType:     req.DocumentType,
		version:     req.Version,
		seal:        newSeal(now),
		processedAt: now,
	}
	s.records[code] = rec
	s.mu.Unlock()

	s.logger.Info("document received", "type", req.DocumentType, "generation_code", code)
	c.JSON(http.StatusOK, s.processed(code, rec))
}

func (s *Server) handleInvalidation(c *gin.Context) {
	var req transmit.InvalidationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	claims, err := s.verify(req.Document)
	if err != nil {
		s.reject(c, "", codeInvalidSign, "FIRMA INVALIDA", err.Error())
		return
	}
	eventCode := identification(claims, "codigoGeneracion")

	var original string
	if doc, ok := claims["documento"].(map[string]any); ok {
		original, _ = doc["codigoGeneracion"].(string)
	}
	original = strings.ToUpper(original)

	now := s.clock.Now()

	s.mu.Lock()
	rec, exists := s.records[original]
	switch {
	case !exists:
		s.mu.Unlock()
		s.reject(c, eventCode, codeNotFound, "[documento.codigoGeneracion] DOCUMENTO NO ENCONTRADO")
		return
	case rec.invalidated:
		s.mu.Unlock()
		s.reject(c, eventCode, codeAlreadyVoided, "[documento.codigoGeneracion] DOCUMENTO YA INVALIDADO")
		return
	}
	rec.invalidated = true
	event := &record{docType: "", version: req.Version, seal: newSeal(now), processedAt: now}
	s.mu.Unlock()

	s.logger.Info("document invalidated", "generation_code", original)
	c.JSON(http.StatusOK, s.processed(strings.ToUpper(eventCode), event))
}

func (s *Server) handleConsult(c *gin.Context) {
	var req transmit.ConsultPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	code := strings.ToUpper(req.GenerationCode)
	s.mu.Lock()
	rec, exists := s.records[code]
	s.mu.Unlock()

	if !exists || rec.docType != req.DocumentType {
		s.reject(c, code, codeNotFound, "DOCUMENTO NO ENCONTRADO")
		return
	}
	c.JSON(http.StatusOK, s.processed(code, rec))
}

func (s *Server) processed(code string, rec *record) transmit.Response {
	seal := rec.seal
	desc := "RECIBIDO"
	if rec.invalidated {
		desc = "RECIBIDO, DOCUMENTO INVALIDADO"
	}
	return transmit.Response{
		Version:        rec.version,
		Environment:    "00",
		AppVersion:     2,
		Status:         transmit.StatusProcessed,
		GenerationCode: code,
		ReceivedSeal:   &seal,
		ProcessedAt:    rec.processedAt.In(model.Location).Format(transmit.ProcessedAtLayout),
		Classification: "10",
		MessageCode:    codeReceived,
		Description:    desc,
		Observations:   []string{},
	}
}

// reject answers 400 with a RECHAZADO body, as the authority does
func (s *Server) reject(c *gin.Context, code, msgCode, description string, observations ...string) {
	if observations == nil {
		observations = []string{}
	}
	c.JSON(http.StatusBadRequest, transmit.Response{
		Version:        2,
		Environment:    "00",
		AppVersion:     2,
		Status:         transmit.StatusRejected,
		GenerationCode: code,
		ProcessedAt:    s.clock.Now().In(model.Location).Format(transmit.ProcessedAtLayout),
		Classification: "20",
		MessageCode:    msgCode,
		Description:    description,
		Observations:   observations,
	})
}

func identification(claims jwt.MapClaims, key string) string {
	id, ok := claims["identificacion"].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := id[key].(string)
	return v
}

// newSeal returns a 40 character reception seal
func newSeal(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%d%s%s", now.Year(), id, strings.Repeat("0", 40-4-len(id)))
}
