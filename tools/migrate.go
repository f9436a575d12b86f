package main

import (
	"fmt"
	"os"

	"moneyticket-demo/database"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run tools/migrate.go migrate - Migrate the demo tables")
		return
	}

	switch os.Args[1] {
	case "migrate":
		fmt.Println("🚀 Running demo table migrations...")
		if _, err := database.InitDB(); err != nil {
			fmt.Printf("❌ Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Migration completed successfully!")

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
