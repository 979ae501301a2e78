package http

import (
	"net/http"

	"roznamcha/internal/security"
)

type settingsResponse struct {
	ShopName           string  `json:"shop_name"`
	OwnerName          string  `json:"owner_name"`
	Currency           string  `json:"currency"`
	MainAsset          float64 `json:"main_asset"`
	DateFormat         string  `json:"date_format"`
	Activated          bool    `json:"activated"`
	OnboardingComplete bool    `json:"onboarding_complete"`
	PINConfigured      bool    `json:"pin_configured"`
}

// handleGetSettings returns the shop profile. Hashes never leave the server.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		resp settingsResponse
		err  error
	)
	if resp.ShopName, err = s.settings.ShopName(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.OwnerName, err = s.settings.OwnerName(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.Currency, err = s.settings.Currency(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.MainAsset, err = s.settings.MainAsset(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.DateFormat, err = s.settings.DateFormat(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.Activated, err = s.settings.Activated(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if resp.OnboardingComplete, err = s.settings.OnboardingComplete(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	hash, err := s.settings.PINHash(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp.PINConfigured = hash != ""

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShopName           *string  `json:"shop_name"`
		OwnerName          *string  `json:"owner_name"`
		Currency           *string  `json:"currency"`
		MainAsset          *float64 `json:"main_asset"`
		DateFormat         *string  `json:"date_format"`
		Activated          *bool    `json:"activated"`
		OnboardingComplete *bool    `json:"onboarding_complete"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	if req.ShopName != nil {
		if err := s.settings.SetShopName(ctx, sanitizeInput(*req.ShopName)); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.OwnerName != nil {
		if err := s.settings.SetOwnerName(ctx, sanitizeInput(*req.OwnerName)); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.Currency != nil {
		if err := s.settings.SetCurrency(ctx, sanitizeInput(*req.Currency)); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.MainAsset != nil {
		if err := s.settings.SetMainAsset(ctx, *req.MainAsset); err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.invalidateSnapshots()
	}
	if req.DateFormat != nil {
		if err := s.settings.SetDateFormat(ctx, *req.DateFormat); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.Activated != nil {
		if err := s.settings.SetActivated(ctx, *req.Activated); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.OnboardingComplete != nil {
		if err := s.settings.SetOnboardingComplete(ctx, *req.OnboardingComplete); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	s.handleGetSettings(w, r)
}

// handleSetPIN stores the lock PIN and an optional recovery question.
func (s *Server) handleSetPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN              string `json:"pin"`
		RecoveryQuestion string `json:"recovery_question"`
		RecoveryAnswer   string `json:"recovery_answer"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if len(req.PIN) < 4 {
		writeError(w, http.StatusBadRequest, "pin must be at least 4 digits")
		return
	}

	hash, err := security.HashPIN(req.PIN)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	if err := s.settings.SetPINHash(ctx, hash); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if req.RecoveryQuestion != "" && req.RecoveryAnswer != "" {
		answerHash, err := security.HashRecoveryAnswer(req.RecoveryAnswer)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if err := s.settings.SetRecovery(ctx, sanitizeInput(req.RecoveryQuestion), answerHash); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"pin_configured": true})
}

func (s *Server) handleVerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	hash, err := s.settings.PINHash(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if hash == "" {
		writeError(w, http.StatusConflict, "no pin configured")
		return
	}

	if !security.CheckPIN(req.PIN, hash) {
		writeError(w, http.StatusUnauthorized, "wrong pin")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// handleRecoverPIN resets the PIN after the recovery answer checks out.
func (s *Server) handleRecoverPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
		NewPIN string `json:"new_pin"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if len(req.NewPIN) < 4 {
		writeError(w, http.StatusBadRequest, "pin must be at least 4 digits")
		return
	}

	ctx := r.Context()
	answerHash, err := s.settings.RecoveryAnswerHash(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if answerHash == "" {
		writeError(w, http.StatusConflict, "no recovery question configured")
		return
	}

	if !security.CheckRecoveryAnswer(req.Answer, answerHash) {
		writeError(w, http.StatusUnauthorized, "wrong answer")
		return
	}

	hash, err := security.HashPIN(req.NewPIN)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.settings.SetPINHash(ctx, hash); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"pin_reset": true})
}
