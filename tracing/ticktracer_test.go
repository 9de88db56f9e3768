package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/plcsim/controller"
	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/plc/pins"
	"github.com/sarchlab/plcsim/sim/hooking"
)

type namedDomain struct {
	*hooking.HookableBase
}

func (namedDomain) Name() string { return "PLC" }

func tickCtx(rec controller.TickRecord) hooking.HookCtx {
	return hooking.HookCtx{
		Domain: namedDomain{hooking.NewHookableBase()},
		Pos:    controller.HookPosTick,
		Item:   rec,
	}
}

var _ = Describe("TickTracer", func() {
	var (
		mockCtrl *gomock.Controller
		backend  *MockDataRecorder
		tracer   *TickTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		backend = NewMockDataRecorder(mockCtrl)

		backend.EXPECT().CreateTable(SessionTableName, SessionRow{})
		backend.EXPECT().CreateTable(TickTableName, TickRow{})
		backend.EXPECT().InsertData(SessionTableName, SessionRow{
			ID: "s1", Component: "PLC", TONPreset: 5, CTUPreset: 5,
		})

		tracer = NewTickTracer(backend, SessionRow{
			ID: "s1", Component: "PLC", TONPreset: 5, CTUPreset: 5,
		})
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write one row per tick", func() {
		rec := controller.TickRecord{
			Cycle:   3,
			Pins:    pins.Pins{UIIn: 0x24, RstN: true, Ena: true},
			Mode:    plc.ModeAuto,
			Outputs: plc.Outputs{Control: true},
			UOOut:   1,
			State: plc.ControlState{
				Control: true,
				Timer:   plc.TimerState{Elapsed: 5, Done: true},
				Counter: plc.CounterState{Count: 1},
			},
		}

		backend.EXPECT().InsertData(TickTableName, TickRow{
			Session:   "s1",
			Component: "PLC",
			Cycle:     3,
			UIIn:      0x24,
			RstN:      true,
			Ena:       true,
			Mode:      "auto",
			Control:   true,
			UOOut:     1,
			Elapsed:   5,
			TimerDone: true,
			Count:     1,
		})

		tracer.Func(tickCtx(rec))
	})

	It("should ignore other hook positions", func() {
		tracer.Func(hooking.HookCtx{Pos: &hooking.HookPos{Name: "Other"}})
	})

	It("should only trace inside the window", func() {
		tracer.SetWindow(2, 4)

		backend.EXPECT().InsertData(TickTableName, gomock.Any()).Times(2)

		for cycle := 0; cycle < 6; cycle++ {
			tracer.Func(tickCtx(controller.TickRecord{Cycle: timingCycle(cycle)}))
		}
	})

	It("should flush the backend", func() {
		backend.EXPECT().Flush()

		tracer.Flush()
		Expect(tracer.Session()).To(Equal("s1"))
	})
})

var _ = Describe("TickTracer session", func() {
	It("should generate a session ID when none is given", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		backend := NewMockDataRecorder(mockCtrl)
		backend.EXPECT().CreateTable(gomock.Any(), gomock.Any()).Times(2)
		backend.EXPECT().InsertData(SessionTableName, gomock.Any())

		tracer := NewTickTracer(backend, SessionRow{})

		Expect(tracer.Session()).To(HaveLen(20))
	})
})
