package a2a

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const agentVersion = "1.0.0"

type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	Provider           AgentProvider     `json:"provider"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	DefaultInputModes  []string          `json:"defaultInputModes"`
	DefaultOutputModes []string          `json:"defaultOutputModes"`
	Skills             []AgentSkill      `json:"skills"`
}

type AgentProvider struct {
	Organization string `json:"organization"`
}

type AgentCapabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples"`
}

// NewAgentCard describes the validator endpoint served under baseURL.
func NewAgentCard(baseURL string) AgentCard {
	return AgentCard{
		Name:        "Idea Validator",
		Description: "Scores a product idea: structure, market research, five scoring dimensions, grade and optimization advice.",
		URL:         baseURL + EndpointPath,
		Version:     agentVersion,
		Provider:    AgentProvider{Organization: "IdeaValidator"},
		Capabilities: AgentCapabilities{
			Streaming:         false,
			PushNotifications: false,
		},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain", "application/json"},
		Skills: []AgentSkill{
			{
				ID:          "validate-idea",
				Name:        "Validate product idea",
				Description: "Evaluates a free-text product idea and returns a 0-100 score with grade EXCELLENT, POTENTIAL or TRASH.",
				Tags:        []string{"startup", "market-research", "scoring"},
				Examples: []string{
					"一个针对养狗人士的优步，提供专业兽医上门遛狗服务",
					"A subscription app that plans weekly meals from what is left in your fridge",
				},
			},
		},
	}
}

// ServeAgentCard builds the card against the host the request came in on.
func (h *Handler) ServeAgentCard(c *gin.Context) {
	c.JSON(http.StatusOK, NewAgentCard(baseURL(c)))
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
