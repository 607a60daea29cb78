package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/spf13/cobra"

	proxyhttp "github.com/awantoch/gemini-proxy/http"
	"github.com/awantoch/gemini-proxy/telemetry"
	"github.com/awantoch/gemini-proxy/utils"
)

// newLambdaCmd creates the 'lambda' subcommand, which hands the proxy to the
// AWS Lambda runtime.
func newLambdaCmd() *cobra.Command {
	var payload string
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run the proxy inside AWS Lambda (API Gateway or function URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			shutdownTracing, err := telemetry.InitServerless(cfg)
			if err != nil {
				utils.Warn("tracing disabled: %v", err)
			}
			defer shutdownTracing(context.Background())
			h, closeSecrets, err := proxyhttp.NewHandler(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeSecrets()

			start, err := lambdaStarter(payload, h)
			if err != nil {
				return err
			}
			start()
			return nil
		},
	}
	cmd.Flags().StringVar(&payload, "payload", "v2", "API Gateway payload format: v1 (REST API) or v2 (HTTP API, function URL)")
	return cmd
}

// lambdaStarter picks the adapter for the event payload format.
func lambdaStarter(payload string, h http.Handler) (func(), error) {
	switch payload {
	case "v1":
		adapter := httpadapter.New(h)
		return func() { lambda.Start(adapter.ProxyWithContext) }, nil
	case "v2":
		adapter := httpadapter.NewV2(h)
		return func() { lambda.Start(adapter.ProxyWithContext) }, nil
	default:
		return nil, fmt.Errorf("unsupported payload format %q (want v1 or v2)", payload)
	}
}
