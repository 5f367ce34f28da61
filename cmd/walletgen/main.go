package main

import (
	"fmt"
	"log"

	"remittease.backend/pkg/wallet"
)

// mintIdentity creates a fresh wallet identity for seeding environments
// or manual testing. The recovery secret is printed once; store it safely.
func mintIdentity() (*wallet.Identity, error) {
	return wallet.CreateIdentity()
}

func main() {
	identity, err := mintIdentity()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("wallet address: ", identity.Address)
	fmt.Println("recovery secret:", identity.Mnemonic)
}
