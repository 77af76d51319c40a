package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystickies/store-api/internal/config"
)

// ImageStore offloads inline image payloads to object storage. Kind names the
// owning collection (category, subcategory, product) and becomes part of the
// object key.
type ImageStore interface {
	StoreImage(ctx context.Context, kind string, id uuid.UUID, image string) (string, error)
}

// NoopImageStore keeps images inline. Used when object storage is not
// configured.
type NoopImageStore struct{}

// StoreImage returns the image unchanged.
func (NoopImageStore) StoreImage(_ context.Context, _ string, _ uuid.UUID, image string) (string, error) {
	return image, nil
}

// MediaService uploads data-URL images to S3-compatible storage using AWS
// Signature V4 and returns the public object URL. Non-data-URL values
// (already-hosted URLs) pass through untouched.
type MediaService struct {
	bucket          string
	region          string
	endpoint        string
	accessKeyID     string
	secretAccessKey string
	publicBaseURL   string
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.MediaConfig) *MediaService {
	return &MediaService{
		bucket:          cfg.Bucket,
		region:          cfg.Region,
		endpoint:        cfg.Endpoint,
		accessKeyID:     cfg.AccessKeyID,
		secretAccessKey: cfg.SecretAccessKey,
		publicBaseURL:   cfg.PublicBaseURL,
	}
}

// StoreImage uploads a base64 data URL and returns its object URL. Anything
// that is not a data URL is returned as-is.
func (s *MediaService) StoreImage(ctx context.Context, kind string, id uuid.UUID, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	contentType, data, err := decodeDataURL(image)
	if err != nil {
		return "", fmt.Errorf("invalid image payload: %w", err)
	}
	ext := "bin"
	if i := strings.Index(contentType, "/"); i >= 0 {
		ext = contentType[i+1:]
	}
	key := fmt.Sprintf("catalog/%s/%s/image.%s", kind, id, ext)
	return s.uploadFile(ctx, key, data, contentType)
}

func decodeDataURL(raw string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return contentType, data, nil
}

// uploadFile uploads an object using AWS Signature V4.
func (s *MediaService) uploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	payloadHash := sha256Hex(data)

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(data)))
	req.Header.Set("Host", fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region))
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	req.Header.Set("Authorization", s.signRequest(req, payloadHash, amzDate, dateStamp))

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("media upload failed")
		return "", fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		log.Error().Str("key", key).Int("status", resp.StatusCode).Str("response", string(body)).Msg("media upload rejected")
		return "", fmt.Errorf("media upload failed: %s", string(body))
	}

	log.Info().Str("key", key).Msg("image uploaded")
	return s.objectURL(key), nil
}

// signRequest creates the AWS Signature V4 authorization header.
func (s *MediaService) signRequest(req *http.Request, payloadHash, amzDate, dateStamp string) string {
	const service = "s3"

	canonicalURI := req.URL.Path
	if canonicalURI == "" {
		canonicalURI = "/"
	}

	signedHeaders := []string{"content-type", "host", "x-amz-content-sha256", "x-amz-date"}
	sort.Strings(signedHeaders)

	var canonicalHeaders strings.Builder
	for _, h := range signedHeaders {
		canonicalHeaders.WriteString(h)
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(strings.TrimSpace(req.Header.Get(h)))
		canonicalHeaders.WriteString("\n")
	}
	signedHeadersStr := strings.Join(signedHeaders, ";")

	canonicalRequest := fmt.Sprintf("%s\n%s\n\n%s\n%s\n%s",
		req.Method, canonicalURI, canonicalHeaders.String(), signedHeadersStr, payloadHash)

	algorithm := "AWS4-HMAC-SHA256"
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.region, service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		algorithm, amzDate, credentialScope, sha256Hex([]byte(canonicalRequest)))

	kDate := hmacSHA256([]byte("AWS4"+s.secretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(s.region))
	kService := hmacSHA256(kRegion, []byte(service))
	kSigning := hmacSHA256(kService, []byte("aws4_request"))
	signature := hex.EncodeToString(hmacSHA256(kSigning, []byte(stringToSign)))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, s.accessKeyID, credentialScope, signedHeadersStr, signature)
}

func (s *MediaService) objectURL(key string) string {
	if s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
