package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"accidata/internal/catalog"
	"accidata/internal/config"
	"accidata/internal/db"
	"accidata/internal/domain"
	"accidata/internal/repository"
	"accidata/internal/service"
)

// Terminal chat pass over the accident questionnaire. Answers persist to the
// in-memory local store and mirror into Postgres best-effort, exactly like
// the HTTP chat flow.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	sessionRepo := repository.NewPgSessionRepository(pool)
	responseRepo := repository.NewPgResponseRepository(pool)

	store := service.NewMemoryResponseStore(cfg.ResponseNamespace)
	responseSvc := service.NewResponseService(store, responseRepo, logger)

	accidentCatalog := catalog.Accident()
	sessionSvc := service.NewSessionService(sessionRepo, accidentCatalog, responseSvc, logger)
	reportSvc := service.NewReportService(nil, logger)

	session, engine := sessionSvc.Create(ctx)
	fmt.Printf("===== Accident Report (session %s) =====\n", session.ID)
	fmt.Println("Answer each question. Commands: :prev (go back), :skip (leave blank), :quit")

	var capture service.TextCapture
	lastCategory := ""

	for {
		question, err := engine.CurrentQuestion()
		if err != nil {
			break
		}
		if question.Category != lastCategory {
			lastCategory = question.Category
			fmt.Printf("\n--- %s ---\n", question.Category)
		}

		fmt.Printf("[%d/%d] %s\n> ", engine.Snapshot().Position+1, accidentCatalog.Len(), question.Text)
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		switch strings.TrimSpace(line) {
		case ":quit":
			fmt.Println("Report left unfinished.")
			return
		case ":prev":
			engine.Retreat()
			lastCategory = ""
			continue
		case ":skip":
			engine.Advance()
			continue
		}

		answer, ok := capture.Normalize(line)
		if !ok {
			fmt.Println("Please type an answer, or :skip to leave it blank.")
			continue
		}

		if err := engine.RecordAnswer(ctx, question.ID, answer, domain.ModalityChat); err != nil {
			logger.Warn("record answer", zap.Error(err))
			continue
		}
		engine.Advance()
	}

	fmt.Println("\n===== Report complete =====")
	fmt.Println(reportSvc.BuildSummary(accidentCatalog, engine.Answers(), nil))
	if failures := responseSvc.RemoteFailures(); failures > 0 {
		fmt.Printf("Note: %d answer(s) could not be mirrored remotely.\n", failures)
	}
}
