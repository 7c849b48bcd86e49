//go:build lambda
// +build lambda

package main

import (
	"context"

	"github.com/cyphera/address-relay/internal/config"
	"github.com/cyphera/address-relay/internal/logger"
	"github.com/cyphera/address-relay/internal/server"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

var ginLambda *ginadapter.GinLambda

func init() {
	cfg, err := config.Load()
	if err != nil {
		logger.InitLogger("prod", "info")
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	logger.InitLogger(cfg.Stage, cfg.LogLevel)

	s, err := server.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize server", zap.Error(err))
	}

	ginLambda = ginadapter.New(s.Router)
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.Debug("Received Lambda request",
		zap.String("path", req.Path),
		zap.String("request", spew.Sdump(req)),
	)

	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	defer logger.Sync()
	lambda.Start(Handler)
}
