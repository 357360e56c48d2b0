// Command hash-password prints bcrypt hashes for seeding accounts by hand.
// Passwords are read one per line from stdin, or taken from the arguments.
// The cost defaults to auth.bcrypt_cost from the service configuration.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
)

func main() {
	cost := flag.Int("cost", 0, "bcrypt cost (default: auth.bcrypt_cost from configuration)")
	flag.Parse()

	if *cost == 0 {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("failed to load configuration: %v", err)
		}
		*cost = cfg.Auth.BcryptCost
	}

	if err := run(os.Stdout, os.Stdin, flag.Args(), *cost); err != nil {
		log.Fatal(err)
	}
}

// run hashes every password from args, or from in when args is empty, and
// writes one hash per line to out.
func run(out io.Writer, in io.Reader, args []string, cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}

	passwords := args
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}

	for _, password := range passwords {
		if len(password) > domain.PasswordMaxBytes {
			return fmt.Errorf("password exceeds %d bytes", domain.PasswordMaxBytes)
		}
		hash, err := store.HashPassword(password, cost)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, hash); err != nil {
			return err
		}
	}
	return nil
}
