package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "intakectl",
	Short: "Parcel intake CLI",
	Long: `intakectl drives the parcel intake pipeline without the HTTP API.
It talks to the same stores as the server: PostgreSQL when a DSN is configured,
otherwise an in-memory store that only lives for the duration of one command.`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("INTAKE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("postgres-dsn", "", "PostgreSQL DSN (falls back to POSTGRES_DSN)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "log pipeline events to stderr")
	_ = viper.BindPFlag("postgres-dsn", rootCmd.PersistentFlags().Lookup("postgres-dsn"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(parcelsCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(resetCmd())
}

func postgresDSN() string {
	if dsn := strings.TrimSpace(viper.GetString("postgres-dsn")); dsn != "" {
		return dsn
	}
	return strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
}
