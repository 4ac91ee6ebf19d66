package serialize

// Envelope is the message envelope spec.md §6 describes: a map keyed by
// a fixed set of string labels, values carried as UTF-8 strings. Only the
// labels this module's core actually populates are used; the rest of the
// spec's fixed label set exists for the wire protocol this package does
// not fully implement (network transport is out of scope per spec.md §1).
type Envelope map[string]string

// Fixed envelope labels this module populates. Named as constants so
// every encoder/decoder pair agrees on spelling.
const (
	LabelType             = "Type"
	LabelId               = "Id"
	LabelTimestamp        = "Timestamp"
	LabelCorrelationId    = "CorrelationId"
	LabelTraderId         = "TraderId"
	LabelAccountId        = "AccountId"
	LabelStrategyId       = "StrategyId"
	LabelPositionId       = "PositionId"
	LabelOrderId          = "OrderId"
	LabelOrderIdBroker    = "OrderIdBroker"
	LabelPositionIdBroker = "PositionIdBroker"
	LabelExecutionId      = "ExecutionId"
	LabelSymbol           = "Symbol"
	LabelOrderSide        = "OrderSide"
	LabelOrderType        = "OrderType"
	LabelQuantity         = "Quantity"
	LabelPrice            = "Price"
	LabelTimeInForce      = "TimeInForce"
	LabelExpireTime       = "ExpireTime"
	LabelInitId           = "InitId"
	LabelCurrency         = "Currency"
	LabelCashBalance      = "CashBalance"
	LabelFilledQuantity   = "FilledQuantity"
	LabelLeavesQuantity   = "LeavesQuantity"
	LabelAveragePrice     = "AveragePrice"
	LabelExecutionTime    = "ExecutionTime"
	LabelState            = "State"
)

// enumCamelCase maps the internal upper-snake enum spelling to the
// CamelCase wire spelling spec.md §6 requires for OrderSide/OrderType.
var enumCamelCase = map[string]string{
	"BUY": "Buy", "SELL": "Sell",
	"MARKET": "Market", "LIMIT": "Limit", "STOP": "Stop",
}

var enumUpperSnake = func() map[string]string {
	m := make(map[string]string, len(enumCamelCase))
	for k, v := range enumCamelCase {
		m[v] = k
	}
	return m
}()

// ToWireEnum converts an internal upper-snake enum value (e.g. "BUY") to
// its CamelCase wire spelling (e.g. "Buy").
func ToWireEnum(internal string) string {
	if v, ok := enumCamelCase[internal]; ok {
		return v
	}
	return internal
}

// FromWireEnum converts a CamelCase wire enum value back to upper-snake.
func FromWireEnum(wire string) string {
	if v, ok := enumUpperSnake[wire]; ok {
		return v
	}
	return wire
}
