// Code generated by irpc generator; DO NOT EDIT
// Source: github.com/marben/mpi_mandel/api.go
package mandel

import (
	"context"
	"fmt"
	"github.com/marben/irpc/irpcgen"
)

var _GathererIrpcId = []byte{
	0x99, 0xd8, 0xb3, 0x1f, 0x82, 0x78, 0x3a, 0xd9,
	0x5b, 0xe0, 0xc1, 0x23, 0xea, 0x07, 0xf4, 0xcb,
	0xa6, 0xe0, 0x14, 0xc5, 0xa2, 0x5f, 0x12, 0x2a,
	0xea, 0x27, 0xbc, 0x16, 0x2e, 0x42, 0x77, 0xe0,
}

type GathererIrpcService struct {
	impl Gatherer
}

func NewGathererIrpcService(impl Gatherer) *GathererIrpcService {
	return &GathererIrpcService{
		impl: impl,
	}
}
func (s *GathererIrpcService) Id() []byte {
	return _GathererIrpcId
}
func (s *GathererIrpcService) GetFuncCall(funcId irpcgen.FuncId) (irpcgen.ArgDeserializer, error) {
	switch funcId {
	case 0: // Deliver
		return func(d *irpcgen.Decoder) (irpcgen.FuncExecutor, error) {
			// DESERIALIZE
			var args _irpc_Gatherer_DeliverReq
			if err := args.Deserialize(d); err != nil {
				return nil, err
			}
			return func(ctx context.Context) irpcgen.Serializable {
				// EXECUTE
				var resp _irpc_Gatherer_DeliverResp
				resp.p0 = s.impl.Deliver(args.msg)
				return resp
			}, nil
		}, nil
	default:
		return nil, fmt.Errorf("function '%d' doesn't exist on service '%s'", funcId, s.Id())
	}
}

// GathererIrpcClient implements Gatherer
//
// Gatherer is served by the root rank. Every other rank delivers its block through it.
type GathererIrpcClient struct {
	endpoint irpcgen.Endpoint
}

func NewGathererIrpcClient(endpoint irpcgen.Endpoint) (*GathererIrpcClient, error) {
	if err := endpoint.RegisterClient(_GathererIrpcId); err != nil {
		return nil, fmt.Errorf("register failed: %w", err)
	}
	return &GathererIrpcClient{endpoint: endpoint}, nil
}
func (_c *GathererIrpcClient) Deliver(msg BlockMessage) error {
	var req = _irpc_Gatherer_DeliverReq{
		msg: msg,
	}
	var resp _irpc_Gatherer_DeliverResp
	if err := _c.endpoint.CallRemoteFunc(context.Background(), _GathererIrpcId, 0, req, &resp); err != nil {
		return err
	}
	return resp.p0
}

type _irpc_Gatherer_DeliverReq struct {
	msg BlockMessage
}

func (s _irpc_Gatherer_DeliverReq) Serialize(e *irpcgen.Encoder) error {
	if err := func(enc *irpcgen.Encoder, s BlockMessage) error {
		if err := irpcgen.EncInt(enc, s.Tag); err != nil {
			return fmt.Errorf("serialize s.Tag of type int: %w", err)
		}
		if err := irpcgen.EncInt(enc, s.Rank); err != nil {
			return fmt.Errorf("serialize s.Rank of type int: %w", err)
		}
		if err := irpcgen.EncInt(enc, s.Start); err != nil {
			return fmt.Errorf("serialize s.Start of type int: %w", err)
		}
		if err := irpcgen.EncInt(enc, s.Count); err != nil {
			return fmt.Errorf("serialize s.Count of type int: %w", err)
		}
		if err := irpcgen.EncByteSlice(enc, s.Payload); err != nil {
			return fmt.Errorf("serialize s.Payload of type []byte: %w", err)
		}
		return nil
	}(e, s.msg); err != nil {
		return fmt.Errorf("serialize \"msg\" of type BlockMessage: %w", err)
	}
	return nil
}
func (s *_irpc_Gatherer_DeliverReq) Deserialize(d *irpcgen.Decoder) error {
	if err := func(dec *irpcgen.Decoder, s *BlockMessage) error {
		if err := irpcgen.DecInt(dec, &s.Tag); err != nil {
			return fmt.Errorf("deserialize s.Tag of type int: %w", err)
		}
		if err := irpcgen.DecInt(dec, &s.Rank); err != nil {
			return fmt.Errorf("deserialize s.Rank of type int: %w", err)
		}
		if err := irpcgen.DecInt(dec, &s.Start); err != nil {
			return fmt.Errorf("deserialize s.Start of type int: %w", err)
		}
		if err := irpcgen.DecInt(dec, &s.Count); err != nil {
			return fmt.Errorf("deserialize s.Count of type int: %w", err)
		}
		if err := irpcgen.DecByteSlice(dec, &s.Payload); err != nil {
			return fmt.Errorf("deserialize s.Payload of type []byte: %w", err)
		}
		return nil
	}(d, &s.msg); err != nil {
		return fmt.Errorf("deserialize msg of type BlockMessage: %w", err)
	}
	return nil
}

type _irpc_Gatherer_DeliverResp struct {
	p0 error
}

func (s _irpc_Gatherer_DeliverResp) Serialize(e *irpcgen.Encoder) error {
	if err := func(enc *irpcgen.Encoder, v error) error {
		isNil := v == nil
		if err := irpcgen.EncIsNil(enc, isNil); err != nil {
			return fmt.Errorf("serialize isNil == %t: %w", isNil, err)
		}
		if isNil {
			return nil
		}
		_Error_0_ := v.Error()
		if err := irpcgen.EncString(enc, _Error_0_); err != nil {
			return fmt.Errorf("serialize \"v.Error()\" of type string: %w", err)
		}
		return nil
	}(e, s.p0); err != nil {
		return fmt.Errorf("serialize type error: %w", err)
	}
	return nil
}
func (s *_irpc_Gatherer_DeliverResp) Deserialize(d *irpcgen.Decoder) error {
	if err := func(dec *irpcgen.Decoder, s *error) error {
		var isNil bool
		if err := irpcgen.DecIsNil(dec, &isNil); err != nil {
			return fmt.Errorf("deserialize isNil: %w", err)
		}
		if isNil {
			return nil
		}
		var impl _error_Gatherer_impl
		if err := irpcgen.DecString(dec, &impl._Error_0_); err != nil {
			return fmt.Errorf("deserialize \"_Error_0_\" string: %w", err)
		}
		*s = impl
		return nil
	}(d, &s.p0); err != nil {
		return fmt.Errorf("deserialize type error: %w", err)
	}
	return nil
}

type _error_Gatherer_impl struct {
	_Error_0_ string
}

func (i _error_Gatherer_impl) Error() string {
	return i._Error_0_
}
