package config

// Config is the top-level configuration for the chain-of-retrieval client.
type Config struct {
	Agent     AgentConfig     `json:"agent" yaml:"agent"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	VectorDB  VectorDBConfig  `json:"vectordb" yaml:"vectordb"`
}

// AgentConfig holds the iteration-loop settings.
type AgentConfig struct {
	// MaxIter bounds the number of retrieval iterations. It is the only
	// circuit breaker: there is no token or wall-clock budget.
	MaxIter int `json:"max_iter,omitempty" yaml:"max_iter,omitempty"`
	// EarlyStopping enables the convergence check after each iteration.
	EarlyStopping bool `json:"early_stopping,omitempty" yaml:"early_stopping,omitempty"`
	// RouteCollection enables LLM-based collection routing. When false,
	// every collection is searched for every sub-query.
	RouteCollection bool `json:"route_collection,omitempty" yaml:"route_collection,omitempty"`
	// TextWindowSplitter prefers the wider-context metadata field over the
	// exact passage text when formatting evidence for prompts.
	TextWindowSplitter bool `json:"text_window_splitter,omitempty" yaml:"text_window_splitter,omitempty"`
	// TopK is the per-collection search bound.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
}

// LLMConfig defines configuration for the chat model.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: openai, deepseek, dashscope
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// EmbeddingConfig defines configuration for the embedding model.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: openai, dashscope
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	// CacheEntries enables LRU memoization of query embeddings when > 0.
	CacheEntries int `json:"cache_entries,omitempty" yaml:"cache_entries,omitempty"`
	// CacheTTLSeconds bounds the lifetime of memoized embeddings.
	CacheTTLSeconds int `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
}

// VectorDBConfig defines configuration for the vector store.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: milvus, memory
	Address    string `json:"address,omitempty" yaml:"address,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"` // default collection
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	Token      string `json:"token,omitempty" yaml:"token,omitempty"`
	MetricType string `json:"metric_type,omitempty" yaml:"metric_type,omitempty"` // L2 (default) or IP
}

// Normalize fills defaults for optional fields.
func (c *Config) Normalize() {
	if c.Agent.MaxIter <= 0 {
		c.Agent.MaxIter = 4
	}
	if c.Agent.TopK <= 0 {
		c.Agent.TopK = 5
	}
	if c.VectorDB.Collection == "" {
		c.VectorDB.Collection = "default"
	}
	if c.VectorDB.MetricType == "" {
		c.VectorDB.MetricType = "L2"
	}
}
