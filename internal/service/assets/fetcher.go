package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"go.uber.org/zap"
)

// Asset is a downloaded image ready to be served as an attachment.
type Asset struct {
	Data        []byte
	ContentType string
}

type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *zap.Logger
}

func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = constants.APIConfig.AssetTimeout
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   constants.APIConfig.MaxAssetBytes,
		logger:     logger,
	}
}

// Fetch downloads rawURL. Bodies larger than the size limit are rejected.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Asset, error) {
	if rawURL == "" {
		return nil, errors.NewUpstreamError(errors.KindNotFound, "assets", "fetch", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.NewInputError("invalid asset URL", rawURL)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamError(errors.KindNetworkFailure, "assets", "fetch", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NewUpstreamError(errors.KindNotFound, "assets", "fetch", nil)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.NewUpstreamError(errors.KindNetworkFailure, "assets", "fetch",
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, errors.NewUpstreamError(errors.KindNetworkFailure, "assets", "fetch", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errors.NewUpstreamError(errors.KindMalformedResponse, "assets", "fetch",
			fmt.Errorf("asset exceeds %d bytes", f.maxBytes))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	f.logger.Debug("Asset fetched",
		zap.String("url", rawURL),
		zap.Int("bytes", len(data)),
		zap.String("contentType", contentType))

	return &Asset{Data: data, ContentType: contentType}, nil
}
