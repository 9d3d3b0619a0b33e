package utils

import (
	"fmt"
)

// EmbeddingClient 调用 Ollama embeddings 接口生成文本向量
// host 与模型名来自配置，不在这里读环境变量
type EmbeddingClient struct {
	client *HTTPClient
	host   string
	model  string
}

// NewEmbeddingClient 创建向量生成客户端
func NewEmbeddingClient(host, model string) *EmbeddingClient {
	return &EmbeddingClient{
		client: NewHTTPClient(""),
		host:   host,
		model:  model,
	}
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Generate 生成文本向量，服务不可用时返回错误由调用方决定降级
func (c *EmbeddingClient) Generate(text string) ([]float32, error) {
	var resp embeddingResponse
	err := c.client.PostJSON(c.host+"/api/embeddings", embeddingRequest{
		Model:  c.model,
		Prompt: text,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("生成向量失败: %w", err)
	}
	return resp.Embedding, nil
}
