package main

import (
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/zhukovaskychina/xmysql-server/logger"
	"github.com/zhukovaskychina/xmysql-server/server/conf"
	"github.com/zhukovaskychina/xmysql-server/server/innodb/manager"
)

const help = `
******************************************************************************************

 __   ____  __        _____  ____  _          _____ ______ _______      ________ _____
 \ \ / /  \/  |      / ____|/ __ \| |        / ____|  ____|  __ \ \    / /  ____|  __ \
  \ V /| \  / |_   _| (___ | |  | | |  _____| (___ | |__  | |__) \ \  / /| |__  | |__) |
   > < | |\/| | | | |\___ \| |  | | | |______\___ \|  __| |  _  / \ \/ / |  __| |  _  /
  / . \| |  | | |_| |____) | |__| | |____    ____) | |____| | \ \  \  /  | |____| | \ \
 /_/ \_\_|  |_|\__, |_____/ \___\_\______|  |_____/|______|_|  \_\  \/   |______|_|  \_\
                __/ |
               |___/
******************************************************************************************
*帮助:
*1. -- help         打印此帮助
*2. -- configPath   指定配置文件（预留，事务内核自带默认配置）
*3. -- demo         跑一遍事务内核的完整生命周期演示（默认开启）
******************************************************************************************
`

// inMemoryRootPage/inMemoryPageAccessor is a minimal in-process PageAccessor
// for this embedded demo: the transaction core only ever needs the
// three-counter RootPage contract, so a real B-tree-backed buffer pool is
// unnecessary to show the engine working end to end.
type inMemoryRootPage struct {
	mu                sync.Mutex
	keys, oids, nulls int64
}

func (p *inMemoryRootPage) ReadUniqueStats() (int64, int64, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys, p.oids, p.nulls
}

func (p *inMemoryRootPage) WriteUniqueStats(keys, oids, nulls int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys, p.oids, p.nulls = keys, oids, nulls
}

type inMemoryPageAccessor struct {
	mu    sync.Mutex
	roots map[manager.BTID]*inMemoryRootPage
}

func newInMemoryPageAccessor() *inMemoryPageAccessor {
	return &inMemoryPageAccessor{roots: make(map[manager.BTID]*inMemoryRootPage)}
}

func (a *inMemoryPageAccessor) FixRoot(btid manager.BTID) (manager.RootPage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	root, ok := a.roots[btid]
	if !ok {
		root = &inMemoryRootPage{}
		a.roots[btid] = root
	}
	return root, nil
}

func (a *inMemoryPageAccessor) UnfixRoot(manager.BTID, manager.RootPage) error { return nil }
func (a *inMemoryPageAccessor) SetDirty(manager.BTID, manager.RootPage)        {}

func main() {
	showHelp := flag.Bool("help", false, "打印帮助")
	configPath := flag.String("configPath", "", "my.ini 配置文件路径（预留）")
	runDemo := flag.Bool("demo", true, "跑一遍事务内核生命周期演示")
	flag.Parse()

	if *showHelp {
		fmt.Print(help)
		return
	}
	_ = configPath

	if err := logger.InitLogger(logger.LogConfig{LogLevel: "info"}); err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		return
	}

	if *runDemo {
		if err := runEngineDemo(); err != nil {
			logger.Errorf("transaction core demo failed: %v", err)
		}
	}
}

// runEngineDemo wires a real Engine against the teacher's redo/undo log
// managers and a minimal in-memory PageAccessor, then drives one
// transaction through assignment, a nested system operation, a unique-index
// statistics update, an MVCC completion and release — the embedded-mode
// equivalent of the teacher's own cmd/demo_* mains.
func runEngineDemo() error {
	redo, err := manager.NewRedoLogManager("/tmp/xmysql-tx-core-demo", 64*1024)
	if err != nil {
		return fmt.Errorf("redo log manager: %w", err)
	}
	undo, err := manager.NewUndoLogManager("/tmp/xmysql-tx-core-demo")
	if err != nil {
		return fmt.Errorf("undo log manager: %w", err)
	}

	lockMgr := manager.NewLockManager()
	cfg := conf.NewTxConfig()

	engine := manager.NewEngine(
		cfg,
		manager.NewLogAppender(redo, undo),
		newInMemoryPageAccessor(),
		manager.NewLockReleaser(lockMgr),
		manager.NewAuthorizer([]string{"root"}),
		manager.NewSystemClock(),
	)
	defer engine.Shutdown()

	idx, err := engine.AssignTranIndex(manager.ClientIdentity{Login: "demo", Host: "127.0.0.1"}, "")
	if err != nil {
		return fmt.Errorf("assign tran index: %w", err)
	}
	defer engine.ReleaseTranIndex(idx)
	logger.Infof("assigned transaction index %d", idx)

	if err := engine.SysopBegin(idx); err != nil {
		return fmt.Errorf("sysop begin: %w", err)
	}
	if err := engine.UpdateUniqueStats(idx, manager.BTID(1), 1, 1, 0); err != nil {
		return fmt.Errorf("update unique stats: %w", err)
	}
	if err := engine.SysopCommit(idx); err != nil {
		return fmt.Errorf("sysop commit: %w", err)
	}

	engine.SetQueryTimeout(idx, time.Now().Add(time.Hour))
	if engine.IsInterrupted(idx) {
		logger.Warnf("transaction %d unexpectedly interrupted", idx)
	}

	if err := engine.CompleteMVCC(idx, true); err != nil {
		return fmt.Errorf("complete mvcc: %w", err)
	}
	if err := engine.ReflectAllUniqueStats(); err != nil {
		return fmt.Errorf("reflect unique stats: %w", err)
	}

	engine.ForEachDescriptor(func(row manager.DescriptorRow) bool {
		logger.Infof("tran_index=%d trid=%d client=%s", row.Index, row.TRID, row.Client.Login)
		return true
	})

	return nil
}
