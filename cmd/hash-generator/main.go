// Command hash-generator prints argon2id verifiers for the passwords given as
// arguments, for seeding users directly in the database.
package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/tasker-api/internal/service/auth"
)

func main() {
	passwords := os.Args[1:]
	if len(passwords) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator <password> [password...]")
		os.Exit(2)
	}

	hasher := auth.NewArgon2Hasher(auth.DefaultArgon2Params())

	failed := false
	for _, password := range passwords {
		verifier, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating verifier: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("Password: %s\nVerifier: %s\n\n", password, verifier)
	}

	if failed {
		os.Exit(1)
	}
}
