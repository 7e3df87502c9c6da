package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"portalpadres_backend/internals/configs"
)

var (
	// ErrStudentNotFound means SIGA answered but has no matching student.
	ErrStudentNotFound = errors.New("external: estudiante no encontrado")
	// ErrUpstreamUnavailable wraps transport failures and 5xx answers.
	ErrUpstreamUnavailable = errors.New("external: SIGA no disponible")
	// ErrBadCredentials means the SIGA auth API rejected the credentials.
	ErrBadCredentials = errors.New("external: credenciales SIGA inválidas")
)

// Estudiante is a student record as the SIGA API returns it.
type Estudiante struct {
	IdAlumno        int    `json:"IdAlumno"`
	CURP            string `json:"CURP"`
	ApellidoPaterno string `json:"ApellidoPaterno"`
	ApellidoMaterno string `json:"ApellidoMaterno"`
	Nombre          string `json:"Nombre"`
	CCT             string `json:"CCT"`
	NombreCT        string `json:"NombreCT"`
	Turno           string `json:"Turno"`
	Grado           string `json:"Grado"`
	Grupo           string `json:"Grupo"`
	Estatus         string `json:"Estatus"`
}

// TipoBaja is one entry of the withdrawal-reason catalog.
type TipoBaja struct {
	Id          int    `json:"Id"`
	Descripcion string `json:"Descripcion"`
}

// SolicitudBajaResponse is the upstream answer to a withdrawal request.
type SolicitudBajaResponse struct {
	Mensaje string `json:"mensaje"`
}

// SigaClient calls the SIGA/USEBEQ REST API. It implements Authenticator so it
// can feed its own TokenCache.
type SigaClient struct {
	BaseURL  string
	AuthURL  string
	Email    string
	Password string
	HTTP     *http.Client
	Tokens   *TokenCache
}

// NewSigaClient wires the client against the configured SIGA endpoints. The
// test environments serve certificates the system pool does not trust, so
// verification is disabled the same way the portal has always run.
func NewSigaClient(store TokenStore) *SigaClient {
	c := &SigaClient{
		BaseURL:  configs.SigaAPIBaseURL,
		AuthURL:  configs.SigaAuthURL,
		Email:    configs.SigaAPIEmail,
		Password: configs.SigaAPIPassword,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
	c.Tokens = NewTokenCache(store, c)
	return c
}

// tokenEnvelope accepts both spellings the auth API uses.
type tokenEnvelope struct {
	AccessTokenUpper  string `json:"AccessToken"`
	RefreshTokenUpper string `json:"RefreshToken"`
	AccessTokenLower  string `json:"accessToken"`
	RefreshTokenLower string `json:"refreshToken"`
}

func (e tokenEnvelope) pair() TokenPair {
	pair := TokenPair{AccessToken: e.AccessTokenUpper, RefreshToken: e.RefreshTokenUpper}
	if pair.AccessToken == "" {
		pair.AccessToken = e.AccessTokenLower
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = e.RefreshTokenLower
	}
	return pair
}

func (c *SigaClient) Authenticate(ctx context.Context) (TokenPair, error) {
	return c.LoginWith(ctx, c.Email, c.Password)
}

// LoginWith authenticates arbitrary credentials against the SIGA auth API.
// Used both for the service account and the login passthrough endpoint.
func (c *SigaClient) LoginWith(ctx context.Context, correo, contrasenia string) (TokenPair, error) {
	body := map[string]string{"correo": correo, "contrasenia": contrasenia}
	resp, err := c.postJSON(ctx, c.AuthURL+"/simple", "", body)
	if err != nil {
		return TokenPair{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return TokenPair{}, ErrBadCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return TokenPair{}, fmt.Errorf("%w: auth respondió %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var env tokenEnvelope
	if err := decodeJSON(resp.Body, &env); err != nil {
		return TokenPair{}, err
	}
	return env.pair(), nil
}

func (c *SigaClient) Refresh(ctx context.Context, pair TokenPair) (TokenPair, error) {
	body := map[string]string{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}
	resp, err := c.postJSON(ctx, c.AuthURL+"/get-refresh-tokens", "", body)
	if err != nil {
		return TokenPair{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TokenPair{}, fmt.Errorf("refresh respondió %d", resp.StatusCode)
	}

	var env tokenEnvelope
	if err := decodeJSON(resp.Body, &env); err != nil {
		return TokenPair{}, err
	}
	return env.pair(), nil
}

// EstudianteByCURPCCT looks a student up by CURP and school key.
func (c *SigaClient) EstudianteByCURPCCT(ctx context.Context, curp, cct string) (*Estudiante, error) {
	var est Estudiante
	url := fmt.Sprintf("%s/estudiante/%s/%s", c.BaseURL, curp, cct)
	if err := c.getJSON(ctx, url, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// EstudianteByID looks a student up by SIGA id.
func (c *SigaClient) EstudianteByID(ctx context.Context, idAlumno int) (*Estudiante, error) {
	var est Estudiante
	url := fmt.Sprintf("%s/estudiante/%d", c.BaseURL, idAlumno)
	if err := c.getJSON(ctx, url, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// Boleta downloads the current report card PDF.
func (c *SigaClient) Boleta(ctx context.Context, idAlumno int) ([]byte, error) {
	return c.getBytes(ctx, fmt.Sprintf("%s/boleta/%d", c.BaseURL, idAlumno))
}

// BoletaHistorica downloads a past school year's report card PDF.
func (c *SigaClient) BoletaHistorica(ctx context.Context, idAlumno, anioInicio int) ([]byte, error) {
	return c.getBytes(ctx, fmt.Sprintf("%s/boleta-historica/%d/%d", c.BaseURL, idAlumno, anioInicio))
}

// SolicitarBaja submits a withdrawal request.
func (c *SigaClient) SolicitarBaja(ctx context.Context, idAlumno, idMotivoBaja int) (*SolicitudBajaResponse, error) {
	token, err := c.Tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	body := map[string]int{"idAlumno": idAlumno, "idMotivoBaja": idMotivoBaja}
	resp, err := c.postJSON(ctx, c.BaseURL+"/baja/", token, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out SolicitudBajaResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TiposDeBaja fetches the withdrawal-reason catalog.
func (c *SigaClient) TiposDeBaja(ctx context.Context) ([]TipoBaja, error) {
	var tipos []TipoBaja
	if err := c.getJSON(ctx, c.BaseURL+"/catalogo/tipos-de-baja", &tipos); err != nil {
		return nil, err
	}
	return tipos, nil
}

func (c *SigaClient) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return decodeJSON(resp.Body, out)
}

func (c *SigaClient) getBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *SigaClient) get(ctx context.Context, url string) (*http.Response, error) {
	token, err := c.Tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

func (c *SigaClient) postJSON(ctx context.Context, url, token string, body interface{}) (*http.Response, error) {
	raw, err := sonic.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrStudentNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: respondió %d", ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("SIGA respondió %d", resp.StatusCode)
	}
	return nil
}

func decodeJSON(r io.Reader, out interface{}) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(raw, out)
}
