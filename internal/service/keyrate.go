package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Код серии Selic в SGS Банка Бразилии
const selicSeriesCode = 432

// Справочная ставка обновляется не чаще раза в час
const keyRateCacheTTL = time.Hour

// KeyRateClient получает справочную ставку (Selic) из веб-сервиса SGS
// Банка Бразилии. Значение кэшируется; ошибка получения не фатальна
// для вызывающих.
type KeyRateClient struct {
	httpClient *http.Client
	endpoint   string
	logger     *logrus.Logger

	mu        sync.Mutex
	cached    decimal.Decimal
	fetchedAt time.Time
}

// NewKeyRateClient создаёт клиента веб-сервиса справочной ставки
func NewKeyRateClient(logger *logrus.Logger) *KeyRateClient {
	return &KeyRateClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		endpoint: "https://www3.bcb.gov.br/sgsws/services/FachadaWSSGS",
		logger:   logger,
	}
}

// buildKeyRateRequest формирует SOAP-запрос последнего значения серии Selic
func buildKeyRateRequest() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
        <soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
            <soapenv:Body>
                <getUltimoValorXML>
                    <codigoSerie>%d</codigoSerie>
                </getUltimoValorXML>
            </soapenv:Body>
        </soapenv:Envelope>`, selicSeriesCode)
}

// sendKeyRateRequest отправляет SOAP-запрос и возвращает необработанный ответ
func (c *KeyRateClient) sendKeyRateRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		bytes.NewBufferString(soapRequest),
	)
	if err != nil {
		return nil, err
	}

	// Установка заголовков
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "getUltimoValorXML")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении HTTP-запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("неожиданный статус ответа: %d", resp.StatusCode)
	}

	// Чтение тела ответа
	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении ответа: %w", err)
	}

	return rawBody, nil
}

// parseKeyRateResponse парсит XML-ответ и извлекает значение ставки.
// Сервис возвращает значение в элементе VALOR (регистр может отличаться
// между версиями сервиса).
func parseKeyRateResponse(rawBody []byte) (decimal.Decimal, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при разборе XML: %w", err)
	}

	valueElement := doc.FindElement("//VALOR")
	if valueElement == nil {
		valueElement = doc.FindElement("//valor")
	}
	if valueElement == nil {
		return decimal.Zero, errors.New("элемент VALOR отсутствует в XML-ответе")
	}

	rate, err := decimal.NewFromString(valueElement.Text())
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при преобразовании ставки: %w", err)
	}

	return rate, nil
}

// CurrentRate возвращает актуальную справочную ставку, используя
// кэшированное значение в пределах TTL
func (c *KeyRateClient) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < keyRateCacheTTL {
		return c.cached, nil
	}

	rawBody, err := c.sendKeyRateRequest(ctx, buildKeyRateRequest())
	if err != nil {
		c.logger.WithError(err).Warn("Не удалось запросить справочную ставку")
		return decimal.Zero, err
	}

	rate, err := parseKeyRateResponse(rawBody)
	if err != nil {
		c.logger.WithError(err).Warn("Не удалось разобрать ответ сервиса ставок")
		return decimal.Zero, err
	}

	c.cached = rate
	c.fetchedAt = time.Now()

	c.logger.WithField("taxa_referencia", rate).Info("Справочная ставка успешно получена")
	return rate, nil
}
