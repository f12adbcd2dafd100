package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/halverson/comfyscan/a1111"
	"github.com/halverson/comfyscan/config"
	"github.com/halverson/comfyscan/convert"
)

func newConvertCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	var outputFlag string
	var keepTagsFlag bool
	var modelFlag string
	var sizeFlag string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Synthesize a ComfyUI workflow from an A1111 parameters text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			params, err := a1111.Parse(string(data))
			if err != nil {
				return err
			}

			model := cfg.DefaultModel
			if modelFlag != "" {
				model = modelFlag
			}
			size := cfg.DefaultSize
			if sizeFlag != "" {
				size = sizeFlag
			}

			result := convert.ConvertA1111ToComfyUI(params, convert.Options{
				RemoveLoRATags: !keepTagsFlag,
				DefaultModel:   model,
				DefaultSize:    size,
			})
			if !result.Success {
				return errors.New(result.Error)
			}

			encoded, err := json.MarshalIndent(result.Workflow, "", "  ")
			if err != nil {
				return err
			}
			if outputFlag == "" || outputFlag == "-" {
				fmt.Println(string(encoded))
				return nil
			}
			return os.WriteFile(outputFlag, encoded, 0o644)
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the workflow JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&keepTagsFlag, "keep-lora-tags", false, "Keep inline <lora:...> tags in the positive prompt text")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Checkpoint to use when the record names none")
	cmd.Flags().StringVar(&sizeFlag, "size", "", "WxH fallback when the record has no size")
	return cmd
}
