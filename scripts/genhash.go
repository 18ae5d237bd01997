//go:build ignore

// One-off: go run scripts/genhash.go [password]
// Prints a bcrypt hash at SALT_ROUNDS cost, for seeding users by hand.
package main

import (
	"fmt"
	"os"
	"strconv"

	"todolist/internal/auth"
)

func main() {
	password := "admin"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	cost, _ := strconv.Atoi(os.Getenv("SALT_ROUNDS"))
	h, err := auth.NewPasswordHasher(cost).Hash(password)
	if err != nil {
		panic(err)
	}
	fmt.Print(h)
}
