package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT is set (LocalStack),
// every client is pointed at that endpoint and signs with static credentials.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	endpoint := os.Getenv("AWS_ENDPOINT")

	var opts []func(*config.LoadOptions) error
	if endpoint != "" {
		opts = append(opts, config.WithCredentialsProvider(localCredentials(os.Getenv)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	if endpoint == "" {
		return cfg, nil
	}

	signingRegion := cfg.Region
	if signingRegion == "" {
		signingRegion = os.Getenv("AWS_REGION")
	}
	cfg.EndpointResolverWithOptions = sdkaws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (sdkaws.Endpoint, error) {
			sr := signingRegion
			if sr == "" {
				sr = region
			}
			return sdkaws.Endpoint{
				URL:               endpoint,
				SigningRegion:     sr,
				HostnameImmutable: true,
			}, nil
		})
	return cfg, nil
}

// localCredentials uses the AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY pair when set and
// LocalStack's "test" keys otherwise.
func localCredentials(getenv func(string) string) credentials.StaticCredentialsProvider {
	key, secret := getenv("AWS_ACCESS_KEY_ID"), getenv("AWS_SECRET_ACCESS_KEY")
	if key == "" && secret == "" {
		key, secret = "test", "test"
	}
	return credentials.NewStaticCredentialsProvider(key, secret, getenv("AWS_SESSION_TOKEN"))
}
