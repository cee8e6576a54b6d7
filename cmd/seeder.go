package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/timeclock/internal/user"
	userPostgres "github.com/frahmantamala/timeclock/internal/user/postgres"
	"github.com/spf13/cobra"
)

var seedUsers = []user.User{
	{Login: "user1", Name: "Usuário 1", IsActive: true},
	{Login: "user2", Name: "Usuário 2", IsActive: true},
	{Login: "inativo", Name: "Usuário Inativo", IsActive: false},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample users",
	Long:  `Seed the database with sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			if _, err := db.ExecContext(ctx, "DELETE FROM punches"); err != nil {
				log.Fatalf("failed to clear punches: %v", err)
			}
			fmt.Println("Cleared punches")
		}

		repo := userPostgres.NewUserRepository(db)
		if clearData {
			if err := repo.DeleteAll(ctx); err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared users")
		}

		for i := range seedUsers {
			u := seedUsers[i]
			if err := repo.Upsert(ctx, &u); err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Login, err)
			}
			fmt.Printf("Seeded user: %s (id=%d, active=%t)\n", u.Login, u.ID, u.IsActive)
		}
	},
}
