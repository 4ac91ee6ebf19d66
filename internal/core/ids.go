package core

import (
	"strings"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// idKind is implemented by every identifier type so validation and
// stringification stay in one place instead of being copy-pasted per type.
type idKind interface {
	~string
}

func newID[T idKind](kind, value string) (T, error) {
	if strings.TrimSpace(value) == "" {
		return T(""), errs.InvalidArgument("%s must not be empty", kind)
	}
	return T(value), nil
}

// TraderId identifies the owner of the trading session.
type TraderId string

// NewTraderId validates and constructs a TraderId.
func NewTraderId(s string) (TraderId, error) { return newID[TraderId]("TraderId", s) }

// StrategyId identifies a registered strategy instance.
type StrategyId string

// NewStrategyId validates and constructs a StrategyId.
func NewStrategyId(s string) (StrategyId, error) { return newID[StrategyId]("StrategyId", s) }

// AccountId identifies a trading account.
type AccountId string

// NewAccountId validates and constructs an AccountId.
func NewAccountId(s string) (AccountId, error) { return newID[AccountId]("AccountId", s) }

// OrderId identifies an order as known to this system.
type OrderId string

// NewOrderId validates and constructs an OrderId.
func NewOrderId(s string) (OrderId, error) { return newID[OrderId]("OrderId", s) }

// OrderIdBroker identifies an order as known to the venue.
type OrderIdBroker string

// NewOrderIdBroker validates and constructs an OrderIdBroker.
func NewOrderIdBroker(s string) (OrderIdBroker, error) { return newID[OrderIdBroker]("OrderIdBroker", s) }

// PositionId identifies a position as known to this system.
type PositionId string

// NewPositionId validates and constructs a PositionId.
func NewPositionId(s string) (PositionId, error) { return newID[PositionId]("PositionId", s) }

// PositionIdBroker identifies a position as known to the venue.
type PositionIdBroker string

// NewPositionIdBroker validates and constructs a PositionIdBroker.
func NewPositionIdBroker(s string) (PositionIdBroker, error) {
	return newID[PositionIdBroker]("PositionIdBroker", s)
}

// ExecutionId identifies a single execution/fill report.
type ExecutionId string

// NewExecutionId validates and constructs an ExecutionId.
func NewExecutionId(s string) (ExecutionId, error) { return newID[ExecutionId]("ExecutionId", s) }

// Symbol identifies a tradable instrument.
type Symbol string

// NewSymbol validates and constructs a Symbol.
func NewSymbol(s string) (Symbol, error) { return newID[Symbol]("Symbol", s) }

// ClientId identifies a messaging client in the session handshake.
type ClientId string

// NewClientId validates and constructs a ClientId.
func NewClientId(s string) (ClientId, error) { return newID[ClientId]("ClientId", s) }

// ServerId identifies a messaging server in the session handshake.
type ServerId string

// NewServerId validates and constructs a ServerId.
func NewServerId(s string) (ServerId, error) { return newID[ServerId]("ServerId", s) }

// SessionId identifies an established messaging session.
type SessionId string

// NewSessionId validates and constructs a SessionId.
func NewSessionId(s string) (SessionId, error) { return newID[SessionId]("SessionId", s) }
