package main

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"formsmith/config"
	"formsmith/internal/app"
	"formsmith/internal/form"
	"formsmith/internal/log"
	"formsmith/internal/model"
	"formsmith/internal/service"
)

func answer(a model.Answer) *model.Answer { return &a }

func main() {
	cfg := config.Load()
	log.Configure(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(ctx)

	// The seeded form belongs to the configured owner
	ownerID := service.OwnerID(cfg.OwnerUsername)

	def := &model.FormDefinition{
		ID:          primitive.NewObjectID().Hex(),
		OwnerID:     ownerID,
		Title:       "Algebra <b>warm-up</b>",
		Description: `Five quick questions. Answers like \(x^2\) are written the way you would on paper.`,
		IsTestMode:  true,
		IsPublished: true,
		Sections: []model.Section{
			{
				ID:    "about",
				Title: "About you",
				Questions: []model.Question{
					{ID: "name", Kind: model.KindShortText, Title: "Your name", Required: true},
					{ID: "email", Kind: model.KindEmail, Title: "Email", Required: true},
				},
			},
			{
				ID:    "quiz",
				Title: "Questions",
				Questions: []model.Question{
					{
						ID:            "roots",
						Kind:          model.KindMultiChoice,
						Title:         `Select <i>every</i> root of \(x^2 - 5x + 6 = 0\)`,
						Required:      true,
						Options:       []string{"1", "2", "3", "6"},
						CorrectAnswer: answer(model.MultiValue("2", "3")),
					},
					{
						ID:            "frac",
						Kind:          model.KindSingleChoice,
						Title:         `What is \(\frac{1}{2} + \frac{1}{4}\)?`,
						Required:      true,
						Options:       []string{`\(\frac{3}{4}\)`, `\(\frac{2}{6}\)`, `\(\frac{1}{8}\)`},
						CorrectAnswer: answer(model.Scalar(`\(\frac{3}{4}\)`)),
					},
					{
						ID:       "age",
						Kind:     model.KindNumeric,
						Title:    "How many years have you studied algebra?",
						Required: false,
					},
					{
						ID:          "notes",
						Kind:        model.KindLongText,
						Title:       "Anything else?",
						Description: "Optional, <u>not scored</u>.",
					},
				},
			},
		},
	}

	if err := form.CheckDefinition(def); err != nil {
		log.Fatalf("Seed form is invalid: %v", err)
	}

	if _, err := a.FormRepo.Create(ctx, def); err != nil {
		log.Fatalf("Failed to insert form: %v", err)
	}

	fmt.Printf("Successfully created form '%s' (%s) for owner '%s'\n", def.Title, def.ID, ownerID)
}
