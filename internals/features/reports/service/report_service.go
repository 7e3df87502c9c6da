package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"portalpadres_backend/internals/configs"
	certModel "portalpadres_backend/internals/features/certificates/model"
)

// ErrCertificateNotReady means SCE039 has no signed certificate for the student.
var ErrCertificateNotReady = errors.New("reports: certificado no disponible")

// UpstreamError carries the message the SCE API answered instead of a PDF.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// ReportService builds report URLs and proxies boleta PDFs from the SCE API.
type ReportService struct {
	DB      *gorm.DB
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		DB:      db,
		BaseURL: configs.SceAPIBaseURL,
		Token:   configs.SceAPIToken,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// BoletaPDF fetches the student's report card. The SCE API answers either a
// PDF body or a JSON error, telling which requires sniffing the magic bytes.
func (s *ReportService) BoletaPDF(ctx context.Context, alID int) ([]byte, error) {
	url := fmt.Sprintf("%s/boletas/%d", s.BaseURL, alID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: "Error de comunicacion con el servidor: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK && bytes.HasPrefix(body, []byte("%PDF-")) {
		return body, nil
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return nil, &UpstreamError{Message: "No es posible generar la boleta en este momento"}
	}
	return nil, &UpstreamError{Message: payload.Message}
}

// CertificateURL returns the download URL of the student's signed electronic
// certificate, or ErrCertificateNotReady.
func (s *ReportService) CertificateURL(ctx context.Context, alID int, ciclo string) (string, error) {
	var cert certModel.Certificate
	err := s.DB.WithContext(ctx).Where("al_id = ?", alID).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrCertificateNotReady
	}
	if err != nil {
		return "", err
	}
	if cert.IdEstatus != certModel.CertificateStatusSigned {
		return "", ErrCertificateNotReady
	}
	return fmt.Sprintf("%s/certificados2/%s/%d.pdf", configs.PortalBaseURL, ciclo, alID), nil
}

// ComponentReportURL builds the componentes curriculares report URL. The
// legacy report page takes the al_id base64 encoded.
func (s *ReportService) ComponentReportURL(alID int, ciclo string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%d", alID)))
	return fmt.Sprintf("%s/portal/ReporteE/ReporteCC_%s.php?al_id=%s",
		configs.PortalBaseURL, ciclo, encoded)
}
