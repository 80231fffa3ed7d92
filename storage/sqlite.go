// Package storage SQLite 持久化
// 保存回测运行结果与历史信号，供仪表盘查询。
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stockquant/backtest"
	"stockquant/logger"
	"stockquant/signal"
)

// SQLiteStorage SQLite 存储实现
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage 创建 SQLite 存储
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// 使用 WAL 模式提高并发性能
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// SQLite 并发限制
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("创建表失败: %w", err)
	}

	logger.Info("💾 SQLite 存储已打开: %s", path)
	return &SQLiteStorage{db: db}, nil
}

// createTables 创建表
func createTables(db *sql.DB) error {
	runsSQL := `
	CREATE TABLE IF NOT EXISTS backtest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		initial_capital DECIMAL(20,2),
		final_capital DECIMAL(20,2),
		total_return REAL,
		max_drawdown REAL,
		sharpe_ratio REAL,
		total_trades INTEGER,
		win_rate REAL,
		config_json TEXT,
		result_json TEXT,
		created_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_backtest_runs_symbol ON backtest_runs(symbol);
	CREATE INDEX IF NOT EXISTS idx_backtest_runs_created_at ON backtest_runs(created_at);`

	tradesSQL := `
	CREATE TABLE IF NOT EXISTS backtest_trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		trade_id TEXT,
		entry_date TEXT,
		entry_time TEXT,
		entry_price DECIMAL(20,2),
		exit_date TEXT,
		exit_time TEXT,
		exit_price DECIMAL(20,2),
		shares REAL,
		profit DECIMAL(20,2),
		profit_percent REAL,
		exit_reason TEXT,
		stop_loss_price DECIMAL(20,2),
		FOREIGN KEY (run_id) REFERENCES backtest_runs(id)
	);
	CREATE INDEX IF NOT EXISTS idx_backtest_trades_run_id ON backtest_trades(run_id);`

	signalsSQL := `
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		signal_json TEXT,
		created_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_signals_symbol_timeframe ON signals(symbol, timeframe);`

	for _, stmt := range []string{runsSQL, tradesSQL, signalsSQL} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveBacktestRun 保存回测运行（运行记录 + 交易明细，同一事务）
func (s *SQLiteStorage) SaveBacktestRun(cfg backtest.BacktestConfig, result *backtest.BacktestResult) (int64, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("序列化配置失败: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("序列化结果失败: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO backtest_runs
		(symbol, initial_capital, final_capital, total_return, max_drawdown,
		 sharpe_ratio, total_trades, win_rate, config_json, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Symbol, result.InitialCapital, result.FinalCapital,
		result.TotalReturn, result.MaxDrawdown, result.SharpeRatio,
		result.TotalTrades, result.WinRate,
		string(configJSON), string(resultJSON), time.Now())
	if err != nil {
		return 0, fmt.Errorf("插入回测记录失败: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("获取回测记录ID失败: %w", err)
	}

	for _, trade := range result.Trades {
		if _, err := tx.Exec(`
			INSERT INTO backtest_trades
			(run_id, trade_id, entry_date, entry_time, entry_price,
			 exit_date, exit_time, exit_price, shares, profit,
			 profit_percent, exit_reason, stop_loss_price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, trade.TradeID, trade.EntryDate, trade.EntryTime, trade.EntryPrice,
			trade.ExitDate, trade.ExitTime, trade.ExitPrice, trade.Shares, trade.Profit,
			trade.ProfitPercent, trade.ExitReason, trade.StopLossPrice); err != nil {
			return 0, fmt.Errorf("插入交易明细失败: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("提交事务失败: %w", err)
	}
	return runID, nil
}

// ListBacktestRuns 按时间倒序查询回测历史摘要
func (s *SQLiteStorage) ListBacktestRuns(symbol string, limit int) ([]BacktestRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, symbol, initial_capital, final_capital, total_return,
		       max_drawdown, sharpe_ratio, total_trades, win_rate, created_at
		FROM backtest_runs`
	args := []interface{}{}
	if symbol != "" {
		query += " WHERE symbol = ?"
		args = append(args, symbol)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询回测历史失败: %w", err)
	}
	defer rows.Close()

	var runs []BacktestRun
	for rows.Next() {
		var run BacktestRun
		if err := rows.Scan(&run.ID, &run.Symbol, &run.InitialCapital, &run.FinalCapital,
			&run.TotalReturn, &run.MaxDrawdown, &run.SharpeRatio,
			&run.TotalTrades, &run.WinRate, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("读取回测记录失败: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetBacktestRun 按ID读取完整回测结果
func (s *SQLiteStorage) GetBacktestRun(id int64) (*backtest.BacktestResult, error) {
	var resultJSON string
	err := s.db.QueryRow(`SELECT result_json FROM backtest_runs WHERE id = ?`, id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("回测记录 %d 不存在", id)
	}
	if err != nil {
		return nil, fmt.Errorf("查询回测记录失败: %w", err)
	}

	var result backtest.BacktestResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("解析回测结果失败: %w", err)
	}
	return &result, nil
}

// SaveSignals 批量保存信号（同一事务）
func (s *SQLiteStorage) SaveSignals(symbol, timeframe string, signals []signal.EnrichedSignal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, sig := range signals {
		data, err := json.Marshal(sig)
		if err != nil {
			return fmt.Errorf("序列化信号失败: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO signals (symbol, timeframe, signal_json, created_at)
			VALUES (?, ?, ?, ?)`,
			symbol, timeframe, string(data), now); err != nil {
			return fmt.Errorf("插入信号失败: %w", err)
		}
	}
	return tx.Commit()
}

// ListSignals 按时间倒序查询历史信号
func (s *SQLiteStorage) ListSignals(symbol, timeframe string, limit int) ([]signal.EnrichedSignal, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT signal_json FROM signals WHERE symbol = ?`
	args := []interface{}{symbol}
	if timeframe != "" {
		query += " AND timeframe = ?"
		args = append(args, timeframe)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询信号失败: %w", err)
	}
	defer rows.Close()

	var signals []signal.EnrichedSignal
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("读取信号失败: %w", err)
		}
		var sig signal.EnrichedSignal
		if err := json.Unmarshal([]byte(data), &sig); err != nil {
			return nil, fmt.Errorf("解析信号失败: %w", err)
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

// Close 关闭数据库
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
