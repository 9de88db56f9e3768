package controller

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/plc/pins"
	"github.com/sarchlab/plcsim/sim/hooking"
	"github.com/sarchlab/plcsim/sim/timing"
)

var _ = Describe("Comp", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *timing.SerialEngine
		source   *MockInputSource
		comp     *Comp
	)

	autoStart := pins.Pins{UIIn: 1<<pins.BitAuto | 1<<pins.BitStart, RstN: true, Ena: true}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		source = NewMockInputSource(mockCtrl)

		comp = MakeBuilder().
			WithEngine(engine).
			WithPresets(plc.Presets{TON: 3, CTU: 1}).
			WithInputSource(source).
			Build("PLC")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should tick every cycle until the source runs dry", func() {
		for cycle := timing.VTimeInCycle(0); cycle < 3; cycle++ {
			source.EXPECT().Sample(cycle).Return(autoStart, true)
		}
		source.EXPECT().Sample(timing.VTimeInCycle(3)).Return(pins.Pins{}, false)

		comp.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(comp.NumTicks()).To(Equal(uint64(3)))
		Expect(comp.Outputs()).To(Equal(plc.Outputs{Control: true, Q: true}))
		Expect(comp.UOOut()).To(Equal(uint8(0b11)))
		Expect(comp.State().Timer.Elapsed).To(Equal(uint32(3)))
		Expect(comp.Presets()).To(Equal(plc.Presets{TON: 3, CTU: 1}))
	})

	It("should publish a tick record to hooks", func() {
		hook := NewMockHook(mockCtrl)
		comp.AcceptHook(hook)

		source.EXPECT().Sample(timing.VTimeInCycle(0)).Return(autoStart, true)
		source.EXPECT().Sample(timing.VTimeInCycle(1)).Return(pins.Pins{}, false)
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosTick))
			Expect(ctx.Domain).To(BeIdenticalTo(comp))

			rec := ctx.Item.(TickRecord)
			Expect(rec.Cycle).To(Equal(timing.VTimeInCycle(0)))
			Expect(rec.Mode).To(Equal(plc.ModeAuto))
			Expect(rec.Inputs.Start).To(BeTrue())
			Expect(rec.State.Timer.Elapsed).To(Equal(uint32(1)))
			Expect(rec.UOOut).To(BeZero())
		})

		comp.Start()
		Expect(engine.Run()).To(Succeed())
		Expect(comp.LastRecord().Pins).To(Equal(autoStart))
	})

	It("should reset when rst_n is low", func() {
		source.EXPECT().Sample(timing.VTimeInCycle(0)).Return(autoStart, true)
		source.EXPECT().Sample(timing.VTimeInCycle(1)).
			Return(pins.Pins{UIIn: autoStart.UIIn, Ena: true}, true)
		source.EXPECT().Sample(timing.VTimeInCycle(2)).Return(pins.Pins{}, false)

		comp.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(comp.State()).To(Equal(plc.ControlState{}))
	})

	It("should report its details", func() {
		source.EXPECT().Sample(timing.VTimeInCycle(0)).Return(autoStart, true)
		source.EXPECT().Sample(timing.VTimeInCycle(1)).Return(pins.Pins{}, false)

		comp.Start()
		Expect(engine.Run()).To(Succeed())

		d := comp.Details().(Details)
		Expect(d.Name).To(Equal("PLC"))
		Expect(d.Presets).To(Equal(plc.Presets{TON: 3, CTU: 1}))
		Expect(d.NumTicks).To(Equal(uint64(1)))
		Expect(d.LastRecord.Pins).To(Equal(autoStart))
	})

	It("should allow reading the state while the engine runs", func() {
		source.EXPECT().Sample(gomock.Any()).
			DoAndReturn(func(cycle timing.VTimeInCycle) (pins.Pins, bool) {
				return autoStart, cycle < 2000
			}).
			AnyTimes()

		done := make(chan error)
		comp.Start()
		go func() { done <- engine.Run() }()

		reads := 0
	loop:
		for {
			select {
			case err := <-done:
				Expect(err).NotTo(HaveOccurred())
				break loop
			default:
				_ = comp.Details()
				_ = comp.Outputs()
				_ = comp.UOOut()
				reads++
			}
		}

		Expect(reads).To(BeNumerically(">", 0))
		Expect(comp.NumTicks()).To(Equal(uint64(2000)))
	})

	It("should reject unknown events", func() {
		Expect(comp.Handle("bogus")).To(MatchError(ContainSubstring("PLC")))
	})

	It("should schedule its first tick at the current cycle", func() {
		scheduler := NewMockEventScheduler(mockCtrl)
		c := MakeBuilder().
			WithEngine(scheduler).
			WithInputSource(source).
			Build("PLC")

		scheduler.EXPECT().CurrentTime().Return(timing.VTimeInCycle(7))
		scheduler.EXPECT().Schedule(gomock.Any()).
			Do(func(evt timing.ScheduledEvent) {
				Expect(evt.Time).To(Equal(timing.VTimeInCycle(7)))
				Expect(evt.Handler).To(BeIdenticalTo(c))
				Expect(evt.Event).To(Equal(&timing.TickEvent{Cycle: 7}))
			})

		c.Start()
	})

	It("should refuse to build without an engine or a source", func() {
		Expect(func() {
			MakeBuilder().WithInputSource(source).Build("PLC")
		}).To(Panic())
		Expect(func() {
			MakeBuilder().WithEngine(engine).Build("PLC")
		}).To(Panic())
		Expect(func() {
			MakeBuilder().WithEngine(engine).WithInputSource(source).
				WithFreq(0).Build("PLC")
		}).To(Panic())
	})
})
