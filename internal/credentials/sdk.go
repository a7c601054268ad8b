package credentials

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// SDKProvider adapts a Resolver to aws.CredentialsProvider, so SDK-based
// tooling elsewhere in the stack (or a test cross-validating one of our
// signers against the real SDK) can resolve credentials from the same
// access-key store our own signers use, rather than from environment
// variables or a shared credentials file.
type SDKProvider struct {
	resolver    *Resolver
	accessKeyID string
}

// NewSDKProvider builds an SDKProvider that always resolves accessKeyID.
func NewSDKProvider(resolver *Resolver, accessKeyID string) *SDKProvider {
	return &SDKProvider{resolver: resolver, accessKeyID: accessKeyID}
}

// Retrieve implements aws.CredentialsProvider.
func (p *SDKProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	creds, err := p.resolver.Resolve(ctx, p.accessKeyID)
	if err != nil {
		return aws.Credentials{}, err
	}
	return aws.Credentials{
		AccessKeyID:     creds.AccessKey,
		SecretAccessKey: creds.SecretKey,
		SessionToken:    creds.Token,
		Source:          "alexander-sigkit",
	}, nil
}
