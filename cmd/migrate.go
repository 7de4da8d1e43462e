package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"campusched/internal/seed"
	"campusched/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.AutoMigrate(); err != nil {
			return err
		}
		fmt.Println("schema up to date")
		return nil
	},
}

var datasetPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a JSON reference dataset into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.AutoMigrate(); err != nil {
			return err
		}

		dataset, err := seed.FromJSON(datasetPath)
		if err != nil {
			return err
		}
		if err := dataset.Apply(st.DB()); err != nil {
			return err
		}
		fmt.Printf("seeded %d rooms, %d batches, %d subjects, %d faculty, %d timeslots\n",
			len(dataset.Rooms), len(dataset.Batches), len(dataset.Subjects), len(dataset.Faculty), len(dataset.Timeslots))
		return nil
	},
}

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Database.Driver, cfg.Database.DSN)
}

func init() {
	seedCmd.Flags().StringVarP(&datasetPath, "file", "f", "dataset.json", "dataset file")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
