package transaction

import "sync/atomic"

type TxnID uint64

// Transaction is the execution-layer transaction context. The engine only
// needs identity from it; lock acquisition and recovery hooks live outside
// this module.
type Transaction interface {
	GetID() TxnID
}

var noopTxnCounter uint64

// TxnNoop returns a transaction that carries an id and nothing else.
func TxnNoop() Transaction {
	return txnNoop{id: TxnID(atomic.AddUint64(&noopTxnCounter, 1))}
}

type txnNoop struct {
	id TxnID
}

func (t txnNoop) GetID() TxnID {
	return t.id
}
