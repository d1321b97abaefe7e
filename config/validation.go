package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. [%s] %s\n", i+1, err.Field, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateEmbedding()...)
	errs = append(errs, c.validateVectorDB()...)
	errs = append(errs, c.validateAgent()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors
	if c.LLM.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: "llm provider is required",
		})
	}
	if c.LLM.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.model",
			Message: "llm model is required",
		})
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be in [0, 2]",
		})
	}
	return errs
}

func (c *Config) validateEmbedding() ValidationErrors {
	var errs ValidationErrors
	if c.Embedding.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   "embedding.provider",
			Message: "embedding provider is required",
		})
	}
	if c.Embedding.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "embedding.model",
			Message: "embedding model is required",
		})
	}
	if c.Embedding.Dimensions <= 0 {
		errs = append(errs, ValidationError{
			Field:   "embedding.dimensions",
			Message: "embedding dimensions must be positive",
		})
	}
	return errs
}

func (c *Config) validateVectorDB() ValidationErrors {
	var errs ValidationErrors
	switch c.VectorDB.Provider {
	case "":
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: "vectordb provider is required",
		})
	case "milvus":
		if c.VectorDB.Address == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.address",
				Message: "milvus address is required",
			})
		}
	case "memory":
		// no connection settings
	default:
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: fmt.Sprintf("unknown vectordb provider %q", c.VectorDB.Provider),
		})
	}
	if mt := c.VectorDB.MetricType; mt != "" && mt != "L2" && mt != "IP" {
		errs = append(errs, ValidationError{
			Field:   "vectordb.metric_type",
			Message: fmt.Sprintf("unsupported metric type %q", mt),
		})
	}
	return errs
}

func (c *Config) validateAgent() ValidationErrors {
	var errs ValidationErrors
	if c.Agent.MaxIter < 0 {
		errs = append(errs, ValidationError{
			Field:   "agent.max_iter",
			Message: "max_iter must not be negative",
		})
	}
	if c.Agent.TopK < 0 {
		errs = append(errs, ValidationError{
			Field:   "agent.top_k",
			Message: "top_k must not be negative",
		})
	}
	return errs
}
