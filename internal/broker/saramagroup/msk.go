package saramagroup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/aws/aws-msk-iam-sasl-signer-go/signer"
)

var _ sarama.AccessTokenProvider = (*mskTokenProvider)(nil)

// mskTokenProvider — OAUTHBEARER-токен для AWS MSK IAM из стандартной цепочки учётных данных AWS.
type mskTokenProvider struct {
	region  string
	timeout time.Duration
	// generate — подменяется в тестах.
	generate func(ctx context.Context, region string) (string, int64, error)
}

func newMSKTokenProvider(region string) *mskTokenProvider {
	return &mskTokenProvider{region: region, timeout: 10 * time.Second, generate: signer.GenerateAuthToken}
}

func (p *mskTokenProvider) Token() (*sarama.AccessToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	token, expiryMs, err := p.generate(ctx, p.region)
	if err != nil {
		return nil, fmt.Errorf("generate MSK IAM token region=%s: %w", p.region, err)
	}
	return &sarama.AccessToken{
		Token:      token,
		Extensions: map[string]string{"expiry": strconv.FormatInt(expiryMs, 10)},
	}, nil
}
