// One-off maintenance command: deletes audit log rows older than the
// configured retention and prints what it removed. The server runs the same
// sweep on a schedule; this exists for manual runs after changing retention.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/usthb-datascience/tic-projects/backend/internal/config"
	"github.com/usthb-datascience/tic-projects/backend/internal/models"
	"github.com/usthb-datascience/tic-projects/backend/internal/services"
)

func main() {
	days := flag.Int("days", 0, "retention in days (0 = use configured value)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	retention := cfg.Log.RetentionDays
	if *days > 0 {
		retention = *days
	}
	if retention <= 0 {
		log.Fatal("Retention is disabled; pass -days to force a sweep")
	}

	if err := models.InitDB(&cfg.Database, false); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var before int64
	models.GetDB().Model(&models.SystemLog{}).Count(&before)
	fmt.Printf("Audit rows before sweep: %d\n", before)

	deleted, err := services.NewSystemLogService(models.GetDB()).CleanupOldLogs(retention)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	fmt.Printf("Deleted %d rows older than %d days\n", deleted, retention)
}
