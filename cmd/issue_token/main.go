package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Freeeeeet/school_timetable/internal/controller/rest"
	"github.com/Freeeeeet/school_timetable/internal/model"
)

// Выпускает bearer токен для API, секрет берётся из JWT_SECRET
func main() {
	userID := flag.String("user", "", "user UUID (random when empty)")
	name := flag.String("name", "admin", "display name")
	roles := flag.String("roles", model.RoleAdmin, "comma separated roles")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load(".env")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	id := uuid.New()
	if *userID != "" {
		parsed, err := uuid.Parse(*userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid user UUID: %v\n", err)
			os.Exit(1)
		}
		id = parsed
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, err := rest.IssueToken([]byte(secret), model.Session{UserID: id, Name: *name, Roles: roleList}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
