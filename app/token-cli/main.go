// Command token-cli mints a bearer token for the admin pipeline routes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"relatedItems/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "pipeline-admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	token, err := utils.GenerateJWT(*subject, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println(token)
}
