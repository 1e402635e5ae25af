package erp

import (
  "context"
  "fmt"
  "gorm.io/driver/sqlserver"
  "gorm.io/gorm"
  glogger "gorm.io/gorm/logger"
  "github.com/pdmlab/catalog-backend/internal/logger"
)

// Pair is one key/value cell of ERP master data.
type Pair struct {
  Key   string `json:"fieldName"`
  Value string `json:"value"`
}

// Client is the batched ERP lookup contract: given the distinct product
// numbers appearing on a result page, return the ERP rows keyed by product
// number. Missing rows come back as empty slices, never as an error: ERP
// outages degrade to placeholder data instead of failing the request.
type Client interface {
  Read(ctx context.Context, productNos []string) (map[string][]Pair, error)
}

type prodRow struct {
  FactNo   string `gorm:"column:FACT_NO"`
  ProdNo   string `gorm:"column:PROD_NO"`
  ProdName string `gorm:"column:PROD_NAME"`
  ProdC    string `gorm:"column:PROD_C"`
  ProdCT   string `gorm:"column:PROD_CT"`
  KeyiD    string `gorm:"column:KEYI_D"`
  LeadTime string `gorm:"column:LEAD_TIME"`
  FizoD    string `gorm:"column:FIZO_D"`
  ProdStat string `gorm:"column:PROD_STAT"`
}

type client struct {
  db  *gorm.DB
  log *logger.Logger
}

// NewClient connects to the ERP MSSQL instance. An empty dsn yields a no-op
// client so environments without ERP access still serve requests.
func NewClient(dsn string, log *logger.Logger) (Client, error) {
  clientLog := log.With("service", "ERPClient")
  if dsn == "" {
    clientLog.Warn("ERP_MSSQL_DSN not set, ERP lookups disabled")
    return noopClient{}, nil
  }
  gdb, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{
    Logger: glogger.Default.LogMode(glogger.Silent),
  })
  if err != nil {
    return nil, fmt.Errorf("Failed to connect to ERP database: %w", err)
  }
  return &client{db: gdb, log: clientLog}, nil
}

func (c *client) Read(ctx context.Context, productNos []string) (map[string][]Pair, error) {
  result := make(map[string][]Pair, len(productNos))
  for _, no := range productNos {
    result[no] = []Pair{}
  }
  if len(productNos) == 0 {
    return result, nil
  }

  var rows []prodRow
  err := c.db.WithContext(ctx).
    Raw(`SELECT FACT_NO, PROD_NO, PROD_NAME, PROD_C, PROD_CT, KEYI_D, LEAD_TIME, FIZO_D, PROD_STAT FROM PROD WHERE PROD_NO IN ?`, productNos).
    Scan(&rows).Error
  if err != nil {
    // degrade to placeholders, the catalog response must not depend on ERP uptime
    c.log.Warn("ERP lookup failed, returning placeholders", "error", err)
    return result, nil
  }

  for _, row := range rows {
    result[row.ProdNo] = []Pair{
      {Key: "廠商編號", Value: row.FactNo},
      {Key: "產品編號", Value: row.ProdNo},
      {Key: "品名規格", Value: row.ProdName},
      {Key: "標準進價(進貨幣別)", Value: row.ProdC},
      {Key: "實際單位總成本(本地幣)", Value: row.ProdCT},
      {Key: "建檔日期", Value: row.KeyiD},
      {Key: "LeadTime(天)", Value: row.LeadTime},
      {Key: "停產日期", Value: row.FizoD},
      {Key: "交易狀態", Value: row.ProdStat},
    }
  }
  return result, nil
}

type noopClient struct{}

func (noopClient) Read(ctx context.Context, productNos []string) (map[string][]Pair, error) {
  result := make(map[string][]Pair, len(productNos))
  for _, no := range productNos {
    result[no] = []Pair{}
  }
  return result, nil
}
