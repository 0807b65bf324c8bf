package topics

import (
	"context"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

var builtinTopics = []models.Topic{
	models.NewTopic("Supply Chain Resilience Strategies", "How companies are strengthening their supply chains against disruptions", "", "Supply Chain"),
	models.NewTopic("Electric Truck Adoption Rates Climbing", "Latest market data shows accelerating shift to electric commercial vehicles", "", "Sustainability"),
	models.NewTopic("New Hours of Service Regulations Impact", "Analysis of how recent regulatory changes are affecting the industry", "", "Regulations"),
	models.NewTopic("Warehouse Automation Technologies", "Emerging technologies transforming logistics warehouse operations", "", "Technology"),
	models.NewTopic("Last-Mile Delivery Optimization", "Strategies for improving efficiency in the most expensive segment of delivery", "", "Supply Chain"),
}

// StaticTier serves the built-in topic list.
type StaticTier struct{}

func (StaticTier) Name() string { return "builtin" }

func (StaticTier) Attempt(_ context.Context, _ int) ([]models.Topic, error) {
	out := make([]models.Topic, len(builtinTopics))
	copy(out, builtinTopics)
	return out, nil
}
