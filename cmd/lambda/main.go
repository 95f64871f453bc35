package main

import (
	"context"
	"log"

	"jira_richtext/internal/app"
	"jira_richtext/internal/config"
	"jira_richtext/internal/handler"
	"jira_richtext/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

var ginLambda *ginadapter.GinLambda

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	svc, err := app.NewService(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create issue service: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	ginLambda = ginadapter.New(handler.NewIssueHandler(svc).Router())
	lambda.Start(handleRequest)
}
